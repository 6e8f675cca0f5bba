package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workspace-service/internal/middleware"
	"workspace-service/internal/service"
	"workspace-service/pkg/logger"
	"workspace-service/prometheus"
)

// UserHandler serves user management endpoints
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Create adds a user to the tenant named in the path
func (h *UserHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	user, err := h.users.Create(c.Request().Context(), p, c.Param("id"), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	}, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("user", "create")
	logger.FromEcho(c).Info("user created", zap.String("user_id", user.ID))
	return respondMessage(c, http.StatusCreated, "user created", user)
}

// List returns one page of the tenant's users
func (h *UserHandler) List(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	filter := service.ListUsersFilter{
		Search:      c.QueryParam("search"),
		Role:        c.QueryParam("role"),
		PageRequest: pageRequest(c),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	users, pagination, err := h.users.List(c.Request().Context(), p, c.Param("id"), filter)
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("user", "list")
	return respondList(c, users, pagination)
}

// Get returns a single user
func (h *UserHandler) Get(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.users.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("user", "read")
	return respondData(c, http.StatusOK, user)
}

// Update applies a partial update to a user
func (h *UserHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	user, err := h.users.Update(c.Request().Context(), p, c.Param("id"), service.UpdateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	}, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("user", "update")
	logger.FromEcho(c).Info("user updated", zap.String("user_id", user.ID))
	return respondMessage(c, http.StatusOK, "user updated", user)
}

// Delete removes a user
func (h *UserHandler) Delete(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.users.Delete(c.Request().Context(), p, c.Param("id"), c.RealIP()); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("user", "delete")
	logger.FromEcho(c).Info("user deleted", zap.String("user_id", c.Param("id")))
	return respondMessage(c, http.StatusOK, "user deleted", nil)
}
