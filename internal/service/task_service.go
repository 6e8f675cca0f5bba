package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/prometheus"
)

const defaultTaskPageLimit = 50

// taskOrdering is the deterministic default order for task listings:
// high priority first, then the soonest due date, undated tasks last.
const taskOrdering = "CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, due_date ASC NULLS LAST"

// TaskService orchestrates authorization and auditing around task CRUD
type TaskService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewTaskService creates a task service on the given database handle
func NewTaskService(db *gorm.DB, recorder *audit.Recorder) *TaskService {
	return &TaskService{db: db, recorder: recorder}
}

// CreateTaskInput carries the fields accepted on task creation
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  *string
	DueDate     *time.Time
}

// ListTasksFilter narrows and pages a task listing within one project
type ListTasksFilter struct {
	Search     string
	Status     string
	Priority   string
	AssignedTo string
	PageRequest
}

// UpdateTaskInput carries a partial update; nil fields are left unchanged
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	DueDate     *time.Time
}

// projectForTask resolves the parent project under the caller's scope. A
// project belonging to another tenant is reported as not found, matching the
// read-path existence-hiding rule.
func (s *TaskService) projectForTask(ctx context.Context, p authz.Principal, projectID string) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		return nil, translate(err)
	}
	if err := authz.AuthorizeTenantMatch(p, project.TenantID); err != nil {
		return nil, ErrNotFound
	}
	return &project, nil
}

// Create adds a task to a project. The assignee, when given, must belong to
// the project's tenant.
func (s *TaskService) Create(ctx context.Context, p authz.Principal, projectID string, in CreateTaskInput, origin string) (*model.Task, error) {
	if err := authz.Can(p, authz.ActionCreate, authz.ResourceTask, ""); err != nil {
		return nil, err
	}

	project, err := s.projectForTask(ctx, p, projectID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, validationf("title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.TaskPriorityMedium
	}
	if !model.ValidTaskPriority(priority) {
		return nil, validationf("invalid task priority %q", priority)
	}

	if in.AssignedTo != nil {
		if err := s.validateAssignee(ctx, *in.AssignedTo, project.TenantID); err != nil {
			return nil, err
		}
	}

	task := model.Task{
		TenantID:    project.TenantID,
		ProjectID:   project.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.TaskStatusTodo,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, &task.TenantID, p.UserID, audit.ActionCreateTask, "task", task.ID, origin)
	return &task, nil
}

// List returns one page of a project's tasks ordered by priority descending,
// then due date ascending with undated tasks last
func (s *TaskService) List(ctx context.Context, p authz.Principal, projectID string, filter ListTasksFilter) ([]model.Task, Pagination, error) {
	if err := authz.Can(p, authz.ActionList, authz.ResourceTask, ""); err != nil {
		return nil, Pagination{}, err
	}

	project, err := s.projectForTask(ctx, p, projectID)
	if err != nil {
		return nil, Pagination{}, err
	}

	page, limit, offset := filter.normalize(defaultTaskPageLimit)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tasks []model.Task
	var total int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Task{}).Where("project_id = ? AND tenant_id = ?", project.ID, project.TenantID)
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Priority != "" {
			q = q.Where("priority = ?", filter.Priority)
		}
		if filter.AssignedTo != "" {
			q = q.Where("assigned_to = ?", filter.AssignedTo)
		}
		if filter.Search != "" {
			q = q.Where("lower(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
		}
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return q.
			Preload("Assignee", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name", "email") }).
			Order(taskOrdering).
			Offset(offset).Limit(limit).
			Find(&tasks).Error
	})
	if err != nil {
		return nil, Pagination{}, translate(err)
	}

	return tasks, newPagination(page, limit, total), nil
}

// Get fetches one task by id, hiding cross-tenant existence
func (s *TaskService) Get(ctx context.Context, p authz.Principal, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).
		Preload("Assignee", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name", "email") }).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := authz.AuthorizeTenantMatch(p, task.TenantID); err != nil {
		return nil, ErrNotFound
	}
	return &task, nil
}

// Update applies a partial update. Any member of the owning tenant may
// update a task; the fetch-first flow surfaces cross-tenant attempts as
// access denials.
func (s *TaskService) Update(ctx context.Context, p authz.Principal, id string, in UpdateTaskInput, origin string) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, task.TenantID); err != nil {
		return nil, err
	}
	if err := authz.Can(p, authz.ActionUpdate, authz.ResourceTask, ""); err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationf("title cannot be empty")
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		if !model.ValidTaskStatus(*in.Status) {
			return nil, validationf("invalid task status %q", *in.Status)
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !model.ValidTaskPriority(*in.Priority) {
			return nil, validationf("invalid task priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		if err := s.validateAssignee(ctx, *in.AssignedTo, task.TenantID); err != nil {
			return nil, err
		}
		task.AssignedTo = in.AssignedTo
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.db.WithContext(ctx).Save(&task).Error; err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, &task.TenantID, p.UserID, audit.ActionUpdateTask, "task", task.ID, origin)
	return &task, nil
}

// UpdateStatus is the quick status-only patch used by board views
func (s *TaskService) UpdateStatus(ctx context.Context, p authz.Principal, id, status, origin string) (*model.Task, error) {
	if !model.ValidTaskStatus(status) {
		return nil, validationf("invalid task status %q", status)
	}
	return s.Update(ctx, p, id, UpdateTaskInput{Status: &status}, origin)
}

// Delete removes a task. Same gate sequence as Update.
func (s *TaskService) Delete(ctx context.Context, p authz.Principal, id, origin string) error {
	var task model.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, task.TenantID); err != nil {
		return err
	}
	if err := authz.Can(p, authz.ActionDelete, authz.ResourceTask, ""); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := s.db.WithContext(ctx).Delete(&task).Error; err != nil {
		return translate(err)
	}

	s.recorder.Record(ctx, &task.TenantID, p.UserID, audit.ActionDeleteTask, "task", task.ID, origin)
	return nil
}

// validateAssignee rejects assignment to a user outside the task's tenant
func (s *TaskService) validateAssignee(ctx context.Context, userID, tenantID string) error {
	var assignee model.User
	if err := s.db.WithContext(ctx).First(&assignee, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationf("assigned user does not belong to this organization")
		}
		return translate(err)
	}
	if assignee.TenantID == nil || *assignee.TenantID != tenantID {
		return validationf("assigned user does not belong to this organization")
	}
	return nil
}
