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

// ProjectHandler serves project CRUD endpoints
type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	TenantID    string `json:"tenant_id"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Create persists a new project in the caller's tenant
func (h *ProjectHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	project, err := h.projects.Create(c.Request().Context(), p, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		TenantID:    req.TenantID,
	}, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("project", "create")
	logger.FromEcho(c).Info("project created", zap.String("project_id", project.ID))
	return respondMessage(c, http.StatusCreated, "project created", project)
}

// List returns one page of projects visible to the caller
func (h *ProjectHandler) List(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	projects, pagination, err := h.projects.List(c.Request().Context(), p, service.ListProjectsFilter{
		Search:      c.QueryParam("search"),
		Status:      c.QueryParam("status"),
		PageRequest: pageRequest(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("project", "list")
	return respondList(c, projects, pagination)
}

// Get returns a single project with its task count
func (h *ProjectHandler) Get(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	project, err := h.projects.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("project", "read")
	return respondData(c, http.StatusOK, project)
}

// Update applies a partial update to a project
func (h *ProjectHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	project, err := h.projects.Update(c.Request().Context(), p, c.Param("id"), service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("project", "update")
	logger.FromEcho(c).Info("project updated", zap.String("project_id", project.ID))
	return respondMessage(c, http.StatusOK, "project updated", project)
}

// Delete removes a project together with its tasks
func (h *ProjectHandler) Delete(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.projects.Delete(c.Request().Context(), p, c.Param("id"), c.RealIP()); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("project", "delete")
	logger.FromEcho(c).Info("project deleted", zap.String("project_id", c.Param("id")))
	return respondMessage(c, http.StatusOK, "project deleted", nil)
}
