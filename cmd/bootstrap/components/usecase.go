package components

import (
	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/domain/schedule"
	"visitdesk/internal/pkg/clock"
	"visitdesk/internal/pkg/config"
	"visitdesk/internal/usecase/commands"
	"visitdesk/internal/usecase/queries"
	"visitdesk/internal/usecase/shared"

	"go.uber.org/fx"
)

var UsecaseModule = fx.Options(
	fx.Provide(
		newHoldCommands,
		newProposalResolver,
		newRescheduleCommands,
		commands.NewAuthCommands,
		queries.NewReservationQueries,
		queries.NewTechnicianQueries,
	),
)

func newHoldCommands(
	cfg config.Config,
	uow shared.UnitOfWork,
	technicians commands.TechnicianReader,
	clk clock.Clock,
	rules schedule.Rules,
) *commands.HoldCommands {
	return commands.NewHoldCommands(uow, technicians, clk, rules, cfg.Hold.TTL)
}

func newProposalResolver(cfg config.Config, signer reschedule.Signer) commands.ProposalResolver {
	if cfg.Reschedule.Stateless {
		return commands.NewStatelessResolver(signer)
	}
	return commands.NewStoredResolver(signer)
}

func newRescheduleCommands(
	cfg config.Config,
	uow shared.UnitOfWork,
	signer reschedule.Signer,
	resolver commands.ProposalResolver,
	clk clock.Clock,
) *commands.RescheduleCommands {
	return commands.NewRescheduleCommands(uow, signer, resolver, clk, cfg.Reschedule.PreviewTTL, cfg.Reschedule.Stateless)
}
