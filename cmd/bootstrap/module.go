package bootstrap

import (
	"visitdesk/cmd/bootstrap/components"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewConfig,
			NewScheduleRules,
			NewLogger,
			NewDBPool,
			NewJWTService,
			NewTokenValidator,
			NewSigner,
			NewClock,
		),
		components.PersistenceModule,
		components.UsecaseModule,
		components.HandlerModule,
		components.ServerModule,
	)
}
