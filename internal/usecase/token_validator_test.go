//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/pkg/jwt"
	"visitdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	service := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	validator := usecase.NewTokenValidator(service)
	userID := uuid.New()

	t.Run("accepts an access token", func(t *testing.T) {
		token, err := service.GenerateAccessToken(userID, user.RoleOperator)
		require.NoError(t, err)

		principal, err := validator.ValidateAccessToken(token)

		require.NoError(t, err)
		assert.Equal(t, userID, principal.UserID)
		assert.Equal(t, user.RoleOperator, principal.Role)
		assert.False(t, principal.Elevated())
	})

	t.Run("admin is elevated", func(t *testing.T) {
		token, err := service.GenerateAccessToken(userID, user.RoleAdmin)
		require.NoError(t, err)

		principal, err := validator.ValidateAccessToken(token)

		require.NoError(t, err)
		assert.True(t, principal.Elevated())
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		token, err := service.GenerateRefreshToken(userID, user.RoleOperator)
		require.NoError(t, err)

		_, err = validator.ValidateAccessToken(token)

		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := validator.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := jwt.NewService("other-secret", 15*time.Minute, 24*time.Hour)
		token, err := other.GenerateAccessToken(userID, user.RoleOperator)
		require.NoError(t, err)

		_, err = validator.ValidateAccessToken(token)
		assert.ErrorIs(t, err, usecase.ErrUnauthorized)
	})
}
