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

// TenantHandler serves tenant administration endpoints
type TenantHandler struct {
	tenants *service.TenantService
}

func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

type updateTenantRequest struct {
	Name             *string `json:"name"`
	Status           *string `json:"status"`
	SubscriptionPlan *string `json:"subscription_plan"`
	MaxUsers         *int    `json:"max_users"`
	MaxProjects      *int    `json:"max_projects"`
}

// List returns one page of tenants. Restricted to super_admin.
func (h *TenantHandler) List(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	tenants, pagination, err := h.tenants.List(c.Request().Context(), p, service.ListTenantsFilter{
		Search:      c.QueryParam("search"),
		Status:      c.QueryParam("status"),
		PageRequest: pageRequest(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("tenant", "list")
	return respondList(c, tenants, pagination)
}

// Get returns a single tenant
func (h *TenantHandler) Get(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	tenant, err := h.tenants.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("tenant", "read")
	return respondData(c, http.StatusOK, tenant)
}

// Update applies a partial update to a tenant
func (h *TenantHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	tenant, err := h.tenants.Update(c.Request().Context(), p, c.Param("id"), service.UpdateTenantInput{
		Name:             req.Name,
		Status:           req.Status,
		SubscriptionPlan: req.SubscriptionPlan,
		MaxUsers:         req.MaxUsers,
		MaxProjects:      req.MaxProjects,
	}, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("tenant", "update")
	logger.FromEcho(c).Info("tenant updated", zap.String("tenant_id", tenant.ID))
	return respondMessage(c, http.StatusOK, "tenant updated", tenant)
}
