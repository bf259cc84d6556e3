package api

import (
	"net/http"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/handler/dto/request"
	"visitdesk/internal/handler/dto/response"
	"visitdesk/internal/handler/httperr"
	"visitdesk/internal/handler/middleware"
	"visitdesk/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type HoldHandler struct {
	holds *commands.HoldCommands
}

func NewHoldHandler(holds *commands.HoldCommands) *HoldHandler {
	return &HoldHandler{holds: holds}
}

// Create godoc
// @Summary  Place a provisional hold for a conversation
// @Tags     holds
// @Accept   json
// @Produce  json
// @Param    body body request.CreateHold true "hold request"
// @Success  201 {object} response.Hold
// @Failure  409 {object} httperr.Response
// @Router   /api/holds [post]
func (h *HoldHandler) Create(c *gin.Context) {
	var req request.CreateHold
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid time window", err)
		return
	}

	result, err := h.holds.CreateHold(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	// Re-invocations return the existing hold; the payload carries the
	// same reservation id either way.
	c.JSON(http.StatusCreated, response.NewHold(result))
}

// Confirm godoc
// @Summary  Confirm the conversation's hold
// @Tags     holds
// @Accept   json
// @Produce  json
// @Param    body body request.ConfirmHold true "confirm request"
// @Success  200 {object} response.Hold
// @Failure  410 {object} httperr.Response
// @Router   /api/holds/confirm [post]
func (h *HoldHandler) Confirm(c *gin.Context) {
	var req request.ConfirmHold
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", err)
		return
	}

	result, err := h.holds.ConfirmHold(c.Request.Context(), commands.ConfirmHoldInput{
		Channel:        reservation.Channel(req.Channel),
		ConversationID: req.ConversationID,
		Actor:          actorName(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewHold(result))
}

// Cancel godoc
// @Summary  Release the conversation's hold
// @Tags     holds
// @Accept   json
// @Produce  json
// @Param    body body request.CancelHold true "cancel request"
// @Success  200 {object} response.Message
// @Router   /api/holds/cancel [post]
func (h *HoldHandler) Cancel(c *gin.Context) {
	var req request.CancelHold
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body", err)
		return
	}

	err := h.holds.CancelHold(c.Request.Context(), commands.CancelHoldInput{
		Channel:        reservation.Channel(req.Channel),
		ConversationID: req.ConversationID,
		Actor:          actorName(c),
		Reason:         req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "hold released"})
}

// Expire godoc
// @Summary  Sweep lapsed holds now
// @Tags     holds
// @Produce  json
// @Success  200 {object} response.ExpiredHolds
// @Router   /api/holds/expire [post]
func (h *HoldHandler) Expire(c *gin.Context) {
	expired, err := h.holds.ExpireHolds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.ExpiredHolds{Expired: expired})
}

func actorName(c *gin.Context) string {
	if principal, ok := middleware.GetPrincipal(c); ok {
		return principal.UserID.String()
	}
	return "system"
}
