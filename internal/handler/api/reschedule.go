package api

import (
	"net/http"

	"visitdesk/internal/handler/dto/request"
	"visitdesk/internal/handler/dto/response"
	"visitdesk/internal/handler/httperr"
	"visitdesk/internal/handler/middleware"
	"visitdesk/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RescheduleHandler struct {
	reschedule *commands.RescheduleCommands
}

func NewRescheduleHandler(reschedule *commands.RescheduleCommands) *RescheduleHandler {
	return &RescheduleHandler{reschedule: reschedule}
}

// Preview godoc
// @Summary  Compute a shifted route without applying it
// @Tags     reschedule
// @Accept   json
// @Produce  json
// @Param    body body request.PreviewReschedule true "preview request"
// @Success  200 {object} response.ReschedulePreview
// @Failure  404 {object} httperr.Response
// @Failure  422 {object} httperr.Response
// @Router   /api/reschedule/preview [post]
func (h *RescheduleHandler) Preview(c *gin.Context) {
	var req request.PreviewReschedule
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", err)
		return
	}

	result, err := h.reschedule.PreviewReschedule(c.Request.Context(), commands.PreviewRescheduleInput{
		TechnicianID: req.TechnicianID,
		RouteDate:    req.RouteDate,
		Rules:        req.Rules(),
		Actor:        actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewReschedulePreview(result))
}

// Confirm godoc
// @Summary  Apply a previewed reschedule atomically
// @Tags     reschedule
// @Accept   json
// @Produce  json
// @Param    body body request.ConfirmReschedule true "confirm request"
// @Success  200 {object} response.RescheduleConfirm
// @Failure  409 {object} httperr.Response
// @Failure  410 {object} httperr.Response
// @Router   /api/reschedule/confirm [post]
func (h *RescheduleHandler) Confirm(c *gin.Context) {
	var req request.ConfirmReschedule
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", err)
		return
	}

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}

	result, err := h.reschedule.ConfirmReschedule(c.Request.Context(), commands.ConfirmRescheduleInput{
		PreviewID:        req.PreviewID,
		Hash:             req.Hash,
		TechnicianID:     req.TechnicianID,
		RouteDate:        req.RouteDate,
		Rules:            req.Rules(),
		ExpectedVersions: req.ExpectedVersions,
		Reason:           req.Reason,
		Actor:            principal.UserID.String(),
		Elevated:         principal.Elevated(),
		Comment:          req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewRescheduleConfirm(result))
}

func actorID(c *gin.Context) uuid.UUID {
	if principal, ok := middleware.GetPrincipal(c); ok {
		return principal.UserID
	}
	return uuid.Nil
}
