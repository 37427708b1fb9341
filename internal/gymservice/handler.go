package gymservice

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

// @Summary      Create a gym service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body gymservice.ServiceRequest true "Service payload"
// @Success      201 {object} gymservice.GymService
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /services [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	svc, err := h.service.Create(c.Request.Context(), req, userID)
	if err != nil {
		h.fail(c, err, "Failed to create service")
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// @Summary      List gym services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} gymservice.GymService
// @Router       /services [get]
func (h *Handler) List(c *gin.Context) {
	services, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// @Summary      List active services at a location
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Location ID"
// @Success      200 {array} gymservice.GymService
// @Router       /services/location/{id} [get]
func (h *Handler) ListByLocation(c *gin.Context) {
	id, ok := api.PathID(c, "id", "location")
	if !ok {
		return
	}

	services, err := h.service.ListByLocation(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch services")
		return
	}
	c.JSON(http.StatusOK, services)
}

// @Summary      Get a gym service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Service ID"
// @Success      200 {object} gymservice.GymService
// @Failure      404 {object} api.ErrorResponse
// @Router       /services/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.PathID(c, "id", "service")
	if !ok {
		return
	}

	svc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch service")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// @Summary      Update a gym service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Service ID"
// @Param        request body gymservice.ServiceRequest true "Service payload"
// @Success      200 {object} gymservice.GymService
// @Failure      404 {object} api.ErrorResponse
// @Router       /services/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.PathID(c, "id", "service")
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	svc, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update service")
		return
	}
	c.JSON(http.StatusOK, svc)
}

// @Summary      Deactivate a gym service
// @Tags         services
// @Security     BearerAuth
// @Param        id path int true "Service ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /services/{id} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := api.PathID(c, "id", "service")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to deactivate service")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		api.Abort(c, http.StatusNotFound, "Service not found")
	case errors.Is(err, ErrLocationNotFound):
		api.Abort(c, http.StatusNotFound, "Location not found")
	case errors.Is(err, ErrNameTaken):
		api.Abort(c, http.StatusConflict, "Service with this name already exists at this location")
	default:
		logger.Error(fallback, "error", err)
		api.Abort(c, http.StatusInternalServerError, fallback)
	}
}
