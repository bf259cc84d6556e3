package commands

import (
	"context"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/pkg/jwt"
	"visitdesk/internal/pkg/password"
	"visitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

type AuthCommands struct {
	uow   shared.UnitOfWork
	users UserReader
	jwt   *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, users UserReader, jwtService *jwt.Service) *AuthCommands {
	return &AuthCommands{uow: uow, users: users, jwt: jwtService}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Role         user.Role
}

func (c *AuthCommands) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	var pair *TokenPair
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := c.users.GetByEmail(ctx, tx.DB(), email)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrInvalidCredentials)
			}
			return err
		}

		if err := password.ComparePassword(u.PasswordHash, rawPassword); err != nil {
			return errs.Mark(err, ErrInvalidCredentials)
		}
		if !u.IsActive {
			return ErrUserInactive
		}

		accessToken, err := c.jwt.GenerateAccessToken(u.ID, u.Role)
		if err != nil {
			return errs.Wrap(err, "failed to generate access token")
		}
		refreshToken, err := c.jwt.GenerateRefreshToken(u.ID, u.Role)
		if err != nil {
			return errs.Wrap(err, "failed to generate refresh token")
		}

		if err := tx.Users().UpdateLastLogin(ctx, u.ID); err != nil {
			return err
		}

		pair = &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, Role: u.Role}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// CurrentUser returns the authenticated user's profile.
func (c *AuthCommands) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserSnapshot, error) {
	var snapshot *UserSnapshot
	err := c.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		u, err := c.users.GetByID(ctx, dbtx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrNotFound)
			}
			return err
		}
		snapshot = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RefreshToken rotates the token pair. The user is re-read so a role
// change or deletion takes effect at the next refresh.
func (c *AuthCommands) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := c.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, errs.Mark(errs.New("not a refresh token"), ErrInvalidCredentials)
	}

	var pair *TokenPair
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := c.users.GetByID(ctx, tx.DB(), claims.UserID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrInvalidCredentials)
			}
			return err
		}
		if !u.IsActive {
			return ErrUserInactive
		}

		accessToken, err := c.jwt.GenerateAccessToken(u.ID, u.Role)
		if err != nil {
			return errs.Wrap(err, "failed to generate access token")
		}
		newRefreshToken, err := c.jwt.GenerateRefreshToken(u.ID, u.Role)
		if err != nil {
			return errs.Wrap(err, "failed to generate refresh token")
		}

		pair = &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken, Role: u.Role}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}
