package middleware

import (
	"net/http"
	"strings"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/handler/httperr"
	"visitdesk/internal/pkg/cookie"
	"visitdesk/internal/usecase"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Auth authenticates from the access token cookie, falling back to a
// bearer header for non-browser clients.
func Auth(validator *usecase.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}

		principal, err := validator.ValidateAccessToken(token)
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles or higher trust.
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}
		if _, ok := allowed[principal.Role]; !ok {
			httperr.AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "insufficient role", nil)
			return
		}
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (*usecase.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*usecase.Principal)
	return principal, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}
	return ""
}
