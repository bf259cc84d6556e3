package components

import (
	"visitdesk/internal/domain/schedule"
	"visitdesk/internal/infra/readstore"
	"visitdesk/internal/infra/uow"
	"visitdesk/internal/usecase/commands"
	"visitdesk/internal/usecase/queries"
	"visitdesk/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Options(
	fx.Provide(
		fx.Annotate(uow.NewPgUnitOfWork, fx.As(new(shared.UnitOfWork))),
		fx.Annotate(
			newTechnicianReadStore,
			fx.As(new(commands.TechnicianReader)),
			fx.As(new(queries.TechnicianReadStore)),
			fx.As(new(queries.AvailabilityReadStore)),
		),
		fx.Annotate(readstore.NewReservationReadStore, fx.As(new(queries.ReservationReadStore))),
		fx.Annotate(readstore.NewUserReadStore, fx.As(new(commands.UserReader))),
	),
)

func newTechnicianReadStore(pool *pgxpool.Pool, rules schedule.Rules) *readstore.TechnicianReadStore {
	return readstore.NewTechnicianReadStore(pool, rules)
}
