package api

import (
	"errors"
	"net/http"

	"visitdesk/internal/handler/httperr"
	"visitdesk/internal/usecase"
	"visitdesk/internal/usecase/commands"
	"visitdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// respondError is the single mapping from usecase sentinels to the wire.
// Anything unrecognized is a 500 with the detail kept server-side.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request", err)
	case errors.Is(err, commands.ErrInvalidCredentials), errors.Is(err, usecase.ErrUnauthorized):
		httperr.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", err)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "operation not allowed for this actor", err)
	case errors.Is(err, commands.ErrUserInactive):
		httperr.AbortWithError(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "account is inactive", err)
	case errors.Is(err, commands.ErrNotFound), errors.Is(err, queries.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, "NOT_FOUND", "resource not found", err)
	case errors.Is(err, commands.ErrNoAppointments):
		httperr.AbortWithError(c, http.StatusNotFound, "NO_APPOINTMENTS", "no appointments on route date", err)
	case errors.Is(err, commands.ErrNoResourceAvailable):
		httperr.AbortWithError(c, http.StatusConflict, "NO_RESOURCE_AVAILABLE", "no technician available", err)
	case errors.Is(err, commands.ErrNoSlotFound):
		httperr.AbortWithError(c, http.StatusConflict, "NO_SLOT_FOUND", "no bookable slot in horizon", err)
	case errors.Is(err, commands.ErrSlotTaken):
		httperr.AbortWithError(c, http.StatusConflict, "SLOT_TAKEN", "slot already taken", err)
	case errors.Is(err, commands.ErrVersionConflict):
		httperr.AbortWithError(c, http.StatusConflict, "VERSION_CONFLICT", "reservation changed concurrently", err)
	case errors.Is(err, commands.ErrOriginalsChanged):
		httperr.AbortWithError(c, http.StatusConflict, "ORIGINALS_CHANGED", "route changed since preview", err)
	case errors.Is(err, commands.ErrPreviewConsumed):
		httperr.AbortWithError(c, http.StatusConflict, "PREVIEW_CONSUMED", "preview already applied", err)
	case errors.Is(err, commands.ErrHoldExpired):
		httperr.AbortWithError(c, http.StatusGone, "HOLD_EXPIRED", "hold has expired", err)
	case errors.Is(err, commands.ErrPreviewExpired):
		httperr.AbortWithError(c, http.StatusGone, "PREVIEW_EXPIRED", "preview has expired", err)
	case errors.Is(err, commands.ErrHashMismatch):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, "HASH_MISMATCH", "proposal hash mismatch", err)
	case errors.Is(err, commands.ErrNoMovable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, "NO_MOVABLE", "no movable appointments on route date", err)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, "INTERNAL", "internal server error", err)
	}
}
