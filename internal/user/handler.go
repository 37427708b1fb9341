package user

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

// Register godoc
// @Summary      Register new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      user.RegisterRequest  true  "Registration data"
// @Success      201      {object}  user.AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      user.LoginRequest  true  "Credentials"
// @Success      200      {object}  user.AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Current user
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  user.User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		api.Abort(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, u)
}

// CreateEmployee godoc
// @Summary      Create employee
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      user.CreateEmployeeRequest  true  "Employee"
// @Success      201      {object}  user.User
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /employees [post]
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	u, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, u)
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        locationId  query  int  false  "Filter by location"
// @Success      200  {array}   user.User
// @Router       /employees [get]
func (h *Handler) ListEmployees(c *gin.Context) {
	locationID, ok := api.QueryID(c, "locationId")
	if !ok {
		return
	}

	users, err := h.service.ListEmployees(c.Request.Context(), locationID)
	if err != nil {
		h.fail(c, err, "Failed to fetch employees")
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeactivateEmployee godoc
// @Summary      Deactivate employee
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  int  true  "Employee ID"
// @Success      204
// @Failure      404  {object}  api.ErrorResponse
// @Router       /employees/{id} [delete]
func (h *Handler) DeactivateEmployee(c *gin.Context) {
	id, ok := api.PathID(c, "id", "employee")
	if !ok {
		return
	}

	if err := h.service.DeactivateEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to deactivate employee")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers godoc
// @Summary      List members
// @Description  Employees see members of their own location unless locationId is given.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        locationId  query  int  false  "Filter by location"
// @Success      200  {array}   user.User
// @Router       /members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	locationID, ok := api.QueryID(c, "locationId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if locationID == nil && auth.GetRole(c) == auth.RoleEmployee {
		if id, ok := auth.GetUserID(c); ok {
			if me, err := h.service.GetByID(ctx, id); err == nil {
				locationID = me.LocationID
			}
		}
	}

	users, err := h.service.ListMembers(ctx, locationID)
	if err != nil {
		h.fail(c, err, "Failed to fetch members")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEmailExists):
		api.Abort(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, ErrInvalidCredentials):
		api.Abort(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrAccountDisabled):
		api.Abort(c, http.StatusForbidden, "Account is deactivated")
	case errors.Is(err, ErrLocationNotFound):
		api.Abort(c, http.StatusNotFound, "Location not found")
	case errors.Is(err, ErrUserNotFound):
		api.Abort(c, http.StatusNotFound, "User not found")
	default:
		logger.Error(fallback, "error", err)
		api.Abort(c, http.StatusInternalServerError, fallback)
	}
}
