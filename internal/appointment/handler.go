package appointment

import (
	"errors"
	"net/http"

	"gymhub/internal/api"
	"gymhub/internal/auth"
	"gymhub/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List bookable appointments
// @Description  Active, future and not full, soonest first
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} appointment.Appointment
// @Router       /appointments/available [get]
func (h *Handler) Available(c *gin.Context) {
	items, err := h.service.Available(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch appointments")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      List appointments at a location
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Location ID"
// @Success      200 {array} appointment.Appointment
// @Router       /appointments/location/{id} [get]
func (h *Handler) ByLocation(c *gin.Context) {
	id, ok := api.PathID(c, "id", "location")
	if !ok {
		return
	}

	items, err := h.service.ByLocation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch appointments")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      List upcoming appointments at a location
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Location ID"
// @Success      200 {array} appointment.Appointment
// @Router       /appointments/location/{id}/upcoming [get]
func (h *Handler) UpcomingByLocation(c *gin.Context) {
	id, ok := api.PathID(c, "id", "location")
	if !ok {
		return
	}

	items, err := h.service.UpcomingByLocation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch appointments")
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Appointment ID"
// @Success      200 {object} appointment.Appointment
// @Failure      404 {object} api.ErrorResponse
// @Router       /appointments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.PathID(c, "id", "appointment")
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch appointment")
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Schedule an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body appointment.AppointmentRequest true "Appointment payload"
// @Success      201 {object} appointment.Appointment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /appointments [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), req, userID)
	if err != nil {
		h.fail(c, err, "Failed to create appointment")
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Appointment ID"
// @Param        request body appointment.AppointmentRequest true "Appointment payload"
// @Success      200 {object} appointment.Appointment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /appointments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.PathID(c, "id", "appointment")
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update appointment")
		return
	}
	c.JSON(http.StatusOK, a)
}

// @Summary      Cancel an appointment
// @Description  Deactivates an appointment that has no bookings
// @Tags         appointments
// @Security     BearerAuth
// @Param        id path int true "Appointment ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /appointments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := api.PathID(c, "id", "appointment")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to cancel appointment")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Appointment cancelled successfully"})
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		api.Abort(c, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrLocationNotFound):
		api.Abort(c, http.StatusNotFound, "Location not found")
	case errors.Is(err, ErrServiceNotFound):
		api.Abort(c, http.StatusNotFound, "Gym service not found")
	case errors.Is(err, ErrInvalidTimeRange):
		api.Abort(c, http.StatusBadRequest, "End time must be after start time")
	case errors.Is(err, ErrCapacityBelowBookings):
		api.Abort(c, http.StatusBadRequest, "Max capacity cannot be less than current bookings")
	case errors.Is(err, ErrHasBookings):
		api.Abort(c, http.StatusBadRequest, "Cannot cancel appointment with existing bookings")
	default:
		logger.Error(fallback, "error", err)
		api.Abort(c, http.StatusInternalServerError, fallback)
	}
}
