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

// TaskHandler serves task endpoints, nested under a project for creation
// and listing, addressed directly by id otherwise
type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     string  `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

// Create adds a task to the project named in the path
func (h *TaskHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid due_date, expected YYYY-MM-DD or RFC 3339"})
	}

	task, err := h.tasks.Create(c.Request().Context(), p, c.Param("id"), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
	}, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("task", "create")
	logger.FromEcho(c).Info("task created", zap.String("task_id", task.ID))
	return respondMessage(c, http.StatusCreated, "task created", task)
}

// List returns one page of the project's tasks, highest priority first
func (h *TaskHandler) List(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	tasks, pagination, err := h.tasks.List(c.Request().Context(), p, c.Param("id"), service.ListTasksFilter{
		Search:      c.QueryParam("search"),
		Status:      c.QueryParam("status"),
		Priority:    c.QueryParam("priority"),
		AssignedTo:  c.QueryParam("assigned_to"),
		PageRequest: pageRequest(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("task", "list")
	return respondList(c, tasks, pagination)
}

// Get returns a single task
func (h *TaskHandler) Get(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	task, err := h.tasks.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("task", "read")
	return respondData(c, http.StatusOK, task)
}

// Update applies a partial update to a task
func (h *TaskHandler) Update(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid due_date, expected YYYY-MM-DD or RFC 3339"})
		}
		in.DueDate = dueDate
	}

	task, err := h.tasks.Update(c.Request().Context(), p, c.Param("id"), in, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("task", "update")
	logger.FromEcho(c).Info("task updated", zap.String("task_id", task.ID))
	return respondMessage(c, http.StatusOK, "task updated", task)
}

// UpdateStatus moves a task through its workflow states
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}

	task, err := h.tasks.UpdateStatus(c.Request().Context(), p, c.Param("id"), req.Status, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("task", "update_status")
	return respondMessage(c, http.StatusOK, "task status updated", task)
}

// Delete removes a task
func (h *TaskHandler) Delete(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.tasks.Delete(c.Request().Context(), p, c.Param("id"), c.RealIP()); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordOperation("task", "delete")
	logger.FromEcho(c).Info("task deleted", zap.String("task_id", c.Param("id")))
	return respondMessage(c, http.StatusOK, "task deleted", nil)
}
