package bootstrap

import (
	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/pkg/clock"
	"visitdesk/internal/pkg/config"
	"visitdesk/internal/pkg/jwt"
	"visitdesk/internal/usecase"
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration)
}

func NewTokenValidator(jwtService *jwt.Service) *usecase.TokenValidator {
	return usecase.NewTokenValidator(jwtService)
}

func NewSigner(cfg config.Config) reschedule.Signer {
	return reschedule.NewSigner(cfg.Reschedule.Secret)
}

func NewClock() clock.Clock {
	return clock.NewRealClock()
}
