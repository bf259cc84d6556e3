package api

import (
	"net/http"

	"visitdesk/internal/handler/dto/request"
	"visitdesk/internal/handler/dto/response"
	"visitdesk/internal/handler/httperr"
	"visitdesk/internal/handler/middleware"
	"visitdesk/internal/pkg/config"
	"visitdesk/internal/pkg/cookie"
	"visitdesk/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth      *commands.AuthCommands
	cookieCfg config.CookieConfig
	jwtCfg    config.JWTConfig
}

func NewAuthHandler(auth *commands.AuthCommands, cookieCfg config.CookieConfig, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookieCfg: cookieCfg, jwtCfg: jwtCfg}
}

// Login godoc
// @Summary  Log in with email and password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body request.Login true "credentials"
// @Success  200 {object} response.Login
// @Failure  401 {object} httperr.Response
// @Router   /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", err)
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	cookie.SetTokenCookies(c, h.cookieCfg, pair.AccessToken, pair.RefreshToken,
		h.jwtCfg.AccessDuration, h.jwtCfg.RefreshDuration)
	c.JSON(http.StatusOK, response.Login{Role: pair.Role.String()})
}

// Refresh godoc
// @Summary  Rotate the token pair from the refresh cookie
// @Tags     auth
// @Produce  json
// @Success  200 {object} response.Login
// @Failure  401 {object} httperr.Response
// @Router   /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := cookie.GetRefreshToken(c)
	if refreshToken == "" {
		httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "refresh token required", nil)
		return
	}

	pair, err := h.auth.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	cookie.SetTokenCookies(c, h.cookieCfg, pair.AccessToken, pair.RefreshToken,
		h.jwtCfg.AccessDuration, h.jwtCfg.RefreshDuration)
	c.JSON(http.StatusOK, response.Login{Role: pair.Role.String()})
}

// Me godoc
// @Summary  Get the authenticated user's profile
// @Tags     auth
// @Produce  json
// @Success  200 {object} response.Me
// @Failure  401 {object} httperr.Response
// @Router   /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	snapshot, err := h.auth.CurrentUser(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewMe(snapshot))
}

// Logout godoc
// @Summary  Clear the token cookies
// @Tags     auth
// @Produce  json
// @Success  200 {object} response.Message
// @Router   /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookies(c, h.cookieCfg)
	c.JSON(http.StatusOK, response.Message{Message: "logged out"})
}
