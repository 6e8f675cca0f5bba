package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workspace-service/internal/middleware"
	"workspace-service/internal/service"
	"workspace-service/pkg/logger"
	"workspace-service/prometheus"
)

// AuthHandler serves tenant registration, login and the current-user lookup
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	TenantName       string `json:"tenant_name"`
	Subdomain        string `json:"subdomain"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	FullName         string `json:"full_name"`
	SubscriptionPlan string `json:"subscription_plan"`
}

type loginRequest struct {
	Subdomain string `json:"subdomain"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a tenant together with its first tenant_admin account
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	tenant, admin, err := h.auth.RegisterTenant(c.Request().Context(), service.RegisterTenantInput{
		TenantName:       req.TenantName,
		Subdomain:        req.Subdomain,
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
		SubscriptionPlan: req.SubscriptionPlan,
	}, c.RealIP())
	if err != nil {
		log.Warn("tenant registration failed", zap.String("subdomain", req.Subdomain), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RegisterCounter.Inc()
	log.Info("tenant registered",
		zap.String("tenant_id", tenant.ID),
		zap.String("subdomain", tenant.Subdomain))

	return respondMessage(c, http.StatusCreated, "tenant registered", echo.Map{
		"tenant": tenant,
		"user":   admin,
	})
}

// Login authenticates a user and issues a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	result, err := h.auth.Login(c.Request().Context(), service.LoginInput{
		Subdomain: req.Subdomain,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		log.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.LoginCounter.Inc()
	log.Info("user logged in", zap.String("user_id", result.User.ID))

	return respondData(c, http.StatusOK, result)
}

// Me returns the authenticated user's own record
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.auth.Me(c.Request().Context(), p)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, http.StatusOK, user)
}
