package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/internal/quota"
	"workspace-service/prometheus"
)

const defaultProjectPageLimit = 10

// ProjectService orchestrates authorization, quota enforcement and auditing
// around project CRUD
type ProjectService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewProjectService creates a project service on the given database handle
func NewProjectService(db *gorm.DB, recorder *audit.Recorder) *ProjectService {
	return &ProjectService{db: db, recorder: recorder}
}

// CreateProjectInput carries the fields accepted on project creation.
// TenantID is honored only for super_admin callers, who have no tenant of
// their own and must say which tenant receives the project.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      string
	TenantID    string
}

// ListProjectsFilter narrows and pages a project listing
type ListProjectsFilter struct {
	Search string
	Status string
	PageRequest
}

// UpdateProjectInput carries a partial update; nil fields are left unchanged
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *string
}

// ProjectSummary is a project with its listing metadata
type ProjectSummary struct {
	model.Project
	TaskCount int64 `json:"task_count"`
}

// Create validates role permission and quota, persists the project and
// records an audit entry. The quota check runs on the same transaction as
// the insert. super_admin callers bypass the quota entirely.
func (s *ProjectService) Create(ctx context.Context, p authz.Principal, in CreateProjectInput, origin string) (*model.Project, error) {
	if err := authz.Can(p, authz.ActionCreate, authz.ResourceProject, ""); err != nil {
		return nil, err
	}

	var tenantID string
	if p.IsSuperAdmin() {
		if in.TenantID == "" {
			return nil, validationf("tenant_id is required when creating a project as super_admin")
		}
		tenantID = in.TenantID
	} else {
		tenantID = *p.TenantID
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("name is required")
	}
	status := in.Status
	if status == "" {
		status = model.ProjectStatusActive
	}
	if !model.ValidProjectStatus(status) {
		return nil, validationf("invalid project status %q", status)
	}

	project := model.Project{
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		CreatedBy:   p.UserID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !p.IsSuperAdmin() {
			if err := quota.CheckCreate(tx, tenantID, quota.ResourceProject); err != nil {
				return err
			}
		} else {
			// Still verify the injected tenant exists.
			var tenant model.Tenant
			if err := tx.First(&tenant, "id = ?", tenantID).Error; err != nil {
				return err
			}
		}
		return tx.Create(&project).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, &project.TenantID, p.UserID, audit.ActionCreateProject, "project", project.ID, origin)
	return &project, nil
}

// List returns one page of projects visible to the principal, most recently
// updated first. The page and its count run inside one transaction so the
// pagination math is consistent with the returned rows.
func (s *ProjectService) List(ctx context.Context, p authz.Principal, filter ListProjectsFilter) ([]ProjectSummary, Pagination, error) {
	if err := authz.Can(p, authz.ActionList, authz.ResourceProject, ""); err != nil {
		return nil, Pagination{}, err
	}

	scope := authz.ResolveScope(p)
	page, limit, offset := filter.normalize(defaultProjectPageLimit)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var projects []model.Project
	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := scope.Apply(tx.Model(&model.Project{}))
		if filter.Search != "" {
			q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return q.
			Preload("Creator", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name") }).
			Order("updated_at DESC").
			Offset(offset).Limit(limit).
			Find(&projects).Error
	})
	if err != nil {
		return nil, Pagination{}, translate(err)
	}

	summaries, err := s.withTaskCounts(ctx, projects)
	if err != nil {
		return nil, Pagination{}, translate(err)
	}
	return summaries, newPagination(page, limit, total), nil
}

// Get fetches one project by id. A project outside the caller's tenant is
// reported as not found so the existence of other tenants' records does not
// leak.
func (s *ProjectService) Get(ctx context.Context, p authz.Principal, id string) (*ProjectSummary, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Creator", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name") }).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, project.TenantID); err != nil {
		return nil, ErrNotFound
	}

	summaries, err := s.withTaskCounts(ctx, []model.Project{project})
	if err != nil {
		return nil, translate(err)
	}
	return &summaries[0], nil
}

// Update applies a partial update under the creator-or-admin rule. The
// project is fetched first, so a cross-tenant caller gets an access denial
// rather than a not-found: existence is already established at that point.
func (s *ProjectService) Update(ctx context.Context, p authz.Principal, id string, in UpdateProjectInput, origin string) (*model.Project, error) {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, project.TenantID); err != nil {
		return nil, err
	}
	if err := authz.Can(p, authz.ActionUpdate, authz.ResourceProject, project.CreatedBy); err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("name cannot be empty")
		}
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.Status != nil {
		if !model.ValidProjectStatus(*in.Status) {
			return nil, validationf("invalid project status %q", *in.Status)
		}
		project.Status = *in.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.db.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, &project.TenantID, p.UserID, audit.ActionUpdateProject, "project", project.ID, origin)
	return &project, nil
}

// Delete removes a project and all of its tasks under the creator-or-admin
// rule
func (s *ProjectService) Delete(ctx context.Context, p authz.Principal, id string, origin string) error {
	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, project.TenantID); err != nil {
		return err
	}
	if err := authz.Can(p, authz.ActionDelete, authz.ResourceProject, project.CreatedBy); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return translate(err)
	}

	s.recorder.Record(ctx, &project.TenantID, p.UserID, audit.ActionDeleteProject, "project", project.ID, origin)
	return nil
}

// withTaskCounts decorates projects with their task counts in one grouped
// query
func (s *ProjectService) withTaskCounts(ctx context.Context, projects []model.Project) ([]ProjectSummary, error) {
	summaries := make([]ProjectSummary, len(projects))
	if len(projects) == 0 {
		return summaries, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		summaries[i] = ProjectSummary{Project: p}
	}

	type row struct {
		ProjectID string
		N         int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Task{}).
		Select("project_id", "COUNT(*) AS n").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ProjectID] = r.N
	}
	for i := range summaries {
		summaries[i].TaskCount = counts[summaries[i].ID]
	}
	return summaries, nil
}
