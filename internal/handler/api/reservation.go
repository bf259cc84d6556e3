package api

import (
	"net/http"

	"visitdesk/internal/handler/dto/response"
	"visitdesk/internal/handler/httperr"
	"visitdesk/internal/pkg/clock"
	"visitdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservations *queries.ReservationQueries
	technicians  *queries.TechnicianQueries
	clock        clock.Clock
}

func NewReservationHandler(reservations *queries.ReservationQueries, technicians *queries.TechnicianQueries, clk clock.Clock) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, technicians: technicians, clock: clk}
}

// Get godoc
// @Summary  Get one reservation
// @Tags     reservations
// @Produce  json
// @Param    id path string true "reservation id"
// @Success  200 {object} response.Reservation
// @Failure  404 {object} httperr.Response
// @Router   /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid reservation id", err)
		return
	}

	view, err := h.reservations.GetReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := response.NewReservation(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Route godoc
// @Summary  Get a technician's day
// @Tags     reservations
// @Produce  json
// @Param    id   path  string true "technician id"
// @Param    date query string true "route date (YYYY-MM-DD)"
// @Success  200 {object} response.Route
// @Router   /api/technicians/{id}/route [get]
func (h *ReservationHandler) Route(c *gin.Context) {
	technicianID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid technician id", err)
		return
	}
	routeDate := c.Query("date")
	if routeDate == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "date query parameter required", nil)
		return
	}

	view, err := h.reservations.GetRoute(c.Request.Context(), technicianID, routeDate)
	if err != nil {
		respondError(c, err)
		return
	}

	route, err := response.NewRoute(view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// Technicians godoc
// @Summary  List technicians
// @Tags     technicians
// @Produce  json
// @Success  200 {array} response.Technician
// @Router   /api/technicians [get]
func (h *ReservationHandler) Technicians(c *gin.Context) {
	views, err := h.technicians.ListTechnicians(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]response.Technician, len(views))
	for i, v := range views {
		result[i] = response.NewTechnician(v)
	}
	c.JSON(http.StatusOK, result)
}

// Slots godoc
// @Summary  List a technician's free candidate windows
// @Tags     technicians
// @Produce  json
// @Param    id path string true "technician id"
// @Success  200 {array} response.Slot
// @Router   /api/technicians/{id}/slots [get]
func (h *ReservationHandler) Slots(c *gin.Context) {
	technicianID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid technician id", err)
		return
	}

	slots, err := h.technicians.FreeSlots(c.Request.Context(), technicianID, h.clock.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewSlots(slots))
}
