package credit

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
// @Summary      Buy credits
// @Description  Opens a card payment for quantity credits of one service.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body credit.PaymentRequest true "Purchase"
// @Success      201 {object} credit.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.service.CreatePayment(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err, "Failed to create payment")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Confirm godoc
// @Summary      Confirm a payment
// @Description  Completes a paid payment and adds its credits. Repeating it is harmless.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        intentId path string true "Payment intent ID"
// @Success      200 {object} api.MessageResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments/confirm/{intentId} [post]
func (h *Handler) Confirm(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	intentID := c.Param("intentId")
	if intentID == "" {
		api.Abort(c, http.StatusBadRequest, "Invalid payment intent ID")
		return
	}

	if _, err := h.service.ConfirmPayment(c.Request.Context(), userID, intentID); err != nil {
		h.fail(c, err, "Failed to confirm payment")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Payment confirmed successfully"})
}

// Credits godoc
// @Summary      Available credits for a service
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        serviceId path int true "Service ID"
// @Success      200 {object} credit.Balance
// @Router       /payments/credits/{serviceId} [get]
func (h *Handler) Credits(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	serviceID, ok := api.PathID(c, "serviceId", "service")
	if !ok {
		return
	}

	b, err := h.service.AvailableCredits(c.Request.Context(), userID, serviceID)
	if err != nil {
		h.fail(c, err, "Failed to fetch credits")
		return
	}
	c.JSON(http.StatusOK, b)
}

// Mine godoc
// @Summary      List my payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} credit.Payment
// @Router       /payments/my [get]
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	payments, err := h.service.MyPayments(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		api.Abort(c, http.StatusNotFound, "Service not found")
	case errors.Is(err, ErrPaymentNotFound):
		api.Abort(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ErrNotPaid):
		api.Abort(c, http.StatusPaymentRequired, "Payment has not been completed")
	case errors.Is(err, ErrProvider):
		api.Abort(c, http.StatusBadGateway, "Payment provider unavailable")
	default:
		logger.Error(fallback, "error", err)
		api.Abort(c, http.StatusInternalServerError, fallback)
	}
}
