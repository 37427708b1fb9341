package booking

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

// Create godoc
// @Summary      Book an appointment
// @Description  Spends one credit for the appointment's service and takes a seat.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body booking.CreateBookingRequest true "Booking payload"
// @Success      201 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, req.AppointmentID)
	if err != nil {
		h.fail(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Description  Releases the seat and refunds the credit.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /bookings/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, ok := api.PathID(c, "id", "booking")
	if !ok {
		return
	}

	if _, err := h.service.Cancel(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled successfully"})
}

// Mine godoc
// @Summary      List my bookings
// @Description  Confirmed bookings of the current member, soonest first.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} booking.Booking
// @Router       /bookings/my [get]
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	bookings, err := h.service.MyBookings(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ByAppointment godoc
// @Summary      List bookings of an appointment
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Appointment ID"
// @Success      200 {array} booking.Booking
// @Router       /bookings/appointment/{id} [get]
func (h *Handler) ByAppointment(c *gin.Context) {
	id, ok := api.PathID(c, "id", "appointment")
	if !ok {
		return
	}

	bookings, err := h.service.ByAppointment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		api.Abort(c, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrBookingNotFound):
		api.Abort(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrAppointmentFull):
		api.Abort(c, http.StatusBadRequest, "Appointment is full")
	case errors.Is(err, ErrAlreadyBooked):
		api.Abort(c, http.StatusBadRequest, "You have already booked this appointment")
	case errors.Is(err, ErrPastAppointment):
		api.Abort(c, http.StatusBadRequest, "Cannot book past appointments")
	case errors.Is(err, ErrNoCredits):
		api.Abort(c, http.StatusBadRequest, "No available credits for this service. Please purchase credits first.")
	case errors.Is(err, ErrNotOwner):
		api.Abort(c, http.StatusForbidden, "You can only cancel your own bookings")
	case errors.Is(err, ErrAlreadyCancelled):
		api.Abort(c, http.StatusBadRequest, "Booking is already cancelled")
	case errors.Is(err, ErrPastBooking):
		api.Abort(c, http.StatusBadRequest, "Cannot cancel past bookings")
	default:
		logger.Error(fallback, "error", err)
		api.Abort(c, http.StatusInternalServerError, fallback)
	}
}
