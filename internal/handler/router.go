package handler

import (
	"log/slog"
	"net/http"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/handler/api"
	"visitdesk/internal/handler/middleware"
	"visitdesk/internal/pkg/config"
	"visitdesk/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Auth        *api.AuthHandler
	Hold        *api.HoldHandler
	Reschedule  *api.RescheduleHandler
	Reservation *api.ReservationHandler
}

func NewRouter(
	cfg config.Config,
	logger *slog.Logger,
	validator *usecase.TokenValidator,
	handlers Handlers,
) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	authed := router.Group("/api", middleware.Auth(validator))

	reads := authed.Group("")
	{
		reads.GET("/auth/me", handlers.Auth.Me)
		reads.GET("/reservations/:id", handlers.Reservation.Get)
		reads.GET("/technicians", handlers.Reservation.Technicians)
		reads.GET("/technicians/:id/route", handlers.Reservation.Route)
		reads.GET("/technicians/:id/slots", handlers.Reservation.Slots)
	}

	operators := authed.Group("", middleware.RequireRole(user.RoleOperator, user.RoleAdmin))
	{
		operators.POST("/holds", handlers.Hold.Create)
		operators.POST("/holds/confirm", handlers.Hold.Confirm)
		operators.POST("/holds/cancel", handlers.Hold.Cancel)
		operators.POST("/reschedule/preview", handlers.Reschedule.Preview)
		operators.POST("/reschedule/confirm", handlers.Reschedule.Confirm)
	}

	admins := authed.Group("", middleware.RequireRole(user.RoleAdmin))
	{
		admins.POST("/holds/expire", handlers.Hold.Expire)
	}

	return router
}
