//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"visitdesk/internal/handler/dto/request"
	commonhttp "visitdesk/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoginUser authenticates against the login endpoint and returns the
// session cookies for subsequent requests.
func LoginUser(t *testing.T, router *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()

	w := commonhttp.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.Login{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	cookies := commonhttp.ExtractCookies(w)
	require.NotEmpty(t, cookies, "login set no cookies")
	return cookies
}

// LoginWithDefaultPassword logs in a user seeded through dbtest fixtures.
func LoginWithDefaultPassword(t *testing.T, router *gin.Engine, email string) []*http.Cookie {
	t.Helper()
	return LoginUser(t, router, email, "password123")
}
