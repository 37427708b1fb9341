package location

import (
	"errors"
	"net/http"

	"gymhub/internal/api"
	"gymhub/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a location
// @Tags         admin,locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body location.LocationRequest true "Location payload"
// @Success      201 {object} location.Location
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /locations [post]
func (h *Handler) Create(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	loc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create location")
		return
	}

	c.JSON(http.StatusCreated, loc)
}

// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} location.Location
// @Router       /locations [get]
func (h *Handler) List(c *gin.Context) {
	locs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch locations")
		return
	}
	c.JSON(http.StatusOK, locs)
}

// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Location ID"
// @Success      200 {object} location.Location
// @Failure      404 {object} api.ErrorResponse
// @Router       /locations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.PathID(c, "id", "location")
	if !ok {
		return
	}

	loc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

// @Summary      Update a location
// @Tags         admin,locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Location ID"
// @Param        request body location.LocationRequest true "Location payload"
// @Success      200 {object} location.Location
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /locations/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := api.PathID(c, "id", "location")
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	loc, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

// @Summary      Deactivate a location
// @Tags         admin,locations
// @Security     BearerAuth
// @Param        id path int true "Location ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /locations/{id} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := api.PathID(c, "id", "location")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to deactivate location")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrLocationNotFound):
		api.Abort(c, http.StatusNotFound, "Location not found")
	case errors.Is(err, ErrNameTaken):
		api.Abort(c, http.StatusConflict, "Location with this name already exists")
	default:
		logger.Error(fallback, "error", err)
		api.Abort(c, http.StatusInternalServerError, fallback)
	}
}
