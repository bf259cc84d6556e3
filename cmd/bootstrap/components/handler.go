package components

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"visitdesk/internal/handler"
	"visitdesk/internal/handler/api"
	"visitdesk/internal/pkg/config"
	"visitdesk/internal/sweeper"
	"visitdesk/internal/usecase"
	"visitdesk/internal/usecase/commands"
	"visitdesk/internal/usecase/queries"

	"visitdesk/internal/pkg/clock"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Options(
	fx.Provide(
		newAuthHandler,
		api.NewHoldHandler,
		api.NewRescheduleHandler,
		newReservationHandler,
		newRouter,
		newSweeper,
	),
)

// ServerModule binds the HTTP listener and the hold sweeper to the fx
// lifecycle. Kept apart from HandlerModule so tests can drive the router
// in-process without opening a port.
var ServerModule = fx.Options(
	fx.Invoke(startServer, startSweeper),
)

func newAuthHandler(auth *commands.AuthCommands, cfg config.Config) *api.AuthHandler {
	return api.NewAuthHandler(auth, cfg.Cookie, cfg.JWT)
}

func newReservationHandler(reservations *queries.ReservationQueries, technicians *queries.TechnicianQueries, clk clock.Clock) *api.ReservationHandler {
	return api.NewReservationHandler(reservations, technicians, clk)
}

func newRouter(
	cfg config.Config,
	logger *slog.Logger,
	validator *usecase.TokenValidator,
	authHandler *api.AuthHandler,
	holdHandler *api.HoldHandler,
	rescheduleHandler *api.RescheduleHandler,
	reservationHandler *api.ReservationHandler,
) *gin.Engine {
	return handler.NewRouter(cfg, logger, validator, handler.Handlers{
		Auth:        authHandler,
		Hold:        holdHandler,
		Reschedule:  rescheduleHandler,
		Reservation: reservationHandler,
	})
}

func newSweeper(holds *commands.HoldCommands, cfg config.Config, logger *slog.Logger) *sweeper.Sweeper {
	return sweeper.New(holds, cfg.Hold.SweepInterval, logger)
}

func startServer(lc fx.Lifecycle, cfg config.Config, router *gin.Engine, logger *slog.Logger) {
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("server listening", slog.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

func startSweeper(lc fx.Lifecycle, s *sweeper.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
