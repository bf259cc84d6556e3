package usecase

import (
	"visitdesk/internal/domain/user"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/pkg/jwt"

	"github.com/google/uuid"
)

var ErrUnauthorized = errs.New("unauthorized")

// Principal is the authenticated caller the middleware hangs on the
// request context.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

func (p Principal) Elevated() bool {
	return p.Role.Elevated()
}

type TokenValidator struct {
	jwt *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) *TokenValidator {
	return &TokenValidator{jwt: jwtService}
}

// ValidateAccessToken rejects refresh tokens on purpose; only short-lived
// access tokens authenticate API calls.
func (v *TokenValidator) ValidateAccessToken(token string) (*Principal, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, errs.Mark(err, ErrUnauthorized)
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return nil, errs.Mark(errs.New("not an access token"), ErrUnauthorized)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrUnauthorized)
	}

	return &Principal{UserID: claims.UserID, Role: role}, nil
}
