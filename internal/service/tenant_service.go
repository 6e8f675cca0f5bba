package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/prometheus"
)

const defaultTenantPageLimit = 10

// TenantService manages tenant records. Tenants are never hard-deleted;
// lifecycle is expressed through the status field.
type TenantService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewTenantService creates a tenant service on the given database handle
func NewTenantService(db *gorm.DB, recorder *audit.Recorder) *TenantService {
	return &TenantService{db: db, recorder: recorder}
}

// ListTenantsFilter narrows and pages the tenant listing
type ListTenantsFilter struct {
	Search string
	Status string
	PageRequest
}

// UpdateTenantInput carries a partial update; nil fields are left unchanged.
// The subdomain is immutable and deliberately absent. tenant_admin callers
// may only change the name; the remaining fields are super_admin territory.
type UpdateTenantInput struct {
	Name             *string
	Status           *string
	SubscriptionPlan *string
	MaxUsers         *int
	MaxProjects      *int
}

// List returns one page of tenants in creation order. super_admin only.
func (s *TenantService) List(ctx context.Context, p authz.Principal, filter ListTenantsFilter) ([]model.Tenant, Pagination, error) {
	if err := authz.Can(p, authz.ActionList, authz.ResourceTenant, ""); err != nil {
		return nil, Pagination{}, err
	}

	page, limit, offset := filter.normalize(defaultTenantPageLimit)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenants []model.Tenant
	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.Tenant{})
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("lower(name) LIKE ? OR lower(subdomain) LIKE ?", pattern, pattern)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return q.Order("created_at ASC").Offset(offset).Limit(limit).Find(&tenants).Error
	})
	if err != nil {
		return nil, Pagination{}, translate(err)
	}

	return tenants, newPagination(page, limit, total), nil
}

// Get fetches one tenant. tenant_admin sees only its own tenant; other
// tenants come back as not found.
func (s *TenantService) Get(ctx context.Context, p authz.Principal, id string) (*model.Tenant, error) {
	if err := authz.Can(p, authz.ActionRead, authz.ResourceTenant, ""); err != nil {
		return nil, err
	}

	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, tenant.ID); err != nil {
		return nil, ErrNotFound
	}
	return &tenant, nil
}

// Update applies a partial update. tenant_admin may rename its own tenant;
// status, plan and quota limits require super_admin.
func (s *TenantService) Update(ctx context.Context, p authz.Principal, id string, in UpdateTenantInput, origin string) (*model.Tenant, error) {
	if err := authz.Can(p, authz.ActionUpdate, authz.ResourceTenant, ""); err != nil {
		return nil, err
	}

	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if err := authz.AuthorizeTenantMatch(p, tenant.ID); err != nil {
		return nil, err
	}

	if !p.IsSuperAdmin() && (in.Status != nil || in.SubscriptionPlan != nil || in.MaxUsers != nil || in.MaxProjects != nil) {
		return nil, authz.ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("name cannot be empty")
		}
		tenant.Name = *in.Name
	}
	if in.Status != nil {
		if !model.ValidTenantStatus(*in.Status) {
			return nil, validationf("invalid tenant status %q", *in.Status)
		}
		tenant.Status = *in.Status
	}
	if in.SubscriptionPlan != nil {
		if !model.ValidPlan(*in.SubscriptionPlan) {
			return nil, validationf("invalid subscription plan %q", *in.SubscriptionPlan)
		}
		tenant.SubscriptionPlan = *in.SubscriptionPlan
	}
	if in.MaxUsers != nil {
		if *in.MaxUsers < 1 {
			return nil, validationf("max_users must be positive")
		}
		tenant.MaxUsers = *in.MaxUsers
	}
	if in.MaxProjects != nil {
		if *in.MaxProjects < 1 {
			return nil, validationf("max_projects must be positive")
		}
		tenant.MaxProjects = *in.MaxProjects
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.db.WithContext(ctx).Save(&tenant).Error; err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, &tenant.ID, p.UserID, audit.ActionUpdateTenant, "tenant", tenant.ID, origin)
	return &tenant, nil
}
