package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/internal/quota"
	"workspace-service/prometheus"
)

const defaultUserPageLimit = 10

// UserService orchestrates authorization, quota enforcement and auditing
// around user management
type UserService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewUserService creates a user service on the given database handle
func NewUserService(db *gorm.DB, recorder *audit.Recorder) *UserService {
	return &UserService{db: db, recorder: recorder}
}

// CreateUserInput carries the fields accepted on user creation
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// ListUsersFilter narrows and pages a user listing within one tenant
type ListUsersFilter struct {
	Search   string
	Role     string
	IsActive *bool
	PageRequest
}

// UpdateUserInput carries a partial update; nil fields are left unchanged.
// Role and IsActive changes require an admin role.
type UpdateUserInput struct {
	Email    *string
	Password *string
	FullName *string
	Role     *string
	IsActive *bool
}

// Create adds a user to a tenant. Only admins manage users; the tenant's
// maxUsers quota applies unless the caller is super_admin. A duplicate email
// within the tenant surfaces as a conflict.
func (s *UserService) Create(ctx context.Context, p authz.Principal, tenantID string, in CreateUserInput, origin string) (*model.User, error) {
	if err := authz.Can(p, authz.ActionCreate, authz.ResourceUser, ""); err != nil {
		return nil, err
	}

	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", tenantID).Error; err != nil {
		return nil, translate(err)
	}
	if err := authz.AuthorizeTenantMatch(p, tenant.ID); err != nil {
		return nil, err
	}

	if in.Email == "" || in.Password == "" {
		return nil, validationf("email and password are required")
	}
	role := in.Role
	if role == "" {
		role = string(authz.RoleUser)
	}
	if role == string(authz.RoleSuperAdmin) || !authz.ValidRole(role) {
		return nil, validationf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, translate(err)
	}

	user := model.User{
		TenantID:     &tenant.ID,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         role,
		IsActive:     true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !p.IsSuperAdmin() {
			if err := quota.CheckCreate(tx, tenant.ID, quota.ResourceUser); err != nil {
				return err
			}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, user.TenantID, p.UserID, audit.ActionCreateUser, "user", user.ID, origin)
	return &user, nil
}

// List returns one page of a tenant's users in creation order
func (s *UserService) List(ctx context.Context, p authz.Principal, tenantID string, filter ListUsersFilter) ([]model.User, Pagination, error) {
	if err := authz.Can(p, authz.ActionList, authz.ResourceUser, ""); err != nil {
		return nil, Pagination{}, err
	}
	if err := authz.AuthorizeTenantMatch(p, tenantID); err != nil {
		return nil, Pagination{}, err
	}

	page, limit, offset := filter.normalize(defaultUserPageLimit)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&model.User{}).Where("tenant_id = ?", tenantID)
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("lower(full_name) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
		}
		if filter.Role != "" {
			q = q.Where("role = ?", filter.Role)
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return q.Order("created_at ASC").Offset(offset).Limit(limit).Find(&users).Error
	})
	if err != nil {
		return nil, Pagination{}, translate(err)
	}

	return users, newPagination(page, limit, total), nil
}

// Get fetches one user by id. Admins see any user of their tenant; plain
// users only themselves. Cross-tenant lookups come back as not found.
func (s *UserService) Get(ctx context.Context, p authz.Principal, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if user.TenantID != nil {
		if err := authz.AuthorizeTenantMatch(p, *user.TenantID); err != nil {
			return nil, ErrNotFound
		}
	} else if !p.IsSuperAdmin() {
		return nil, ErrNotFound
	}

	if err := authz.Can(p, authz.ActionRead, authz.ResourceUser, user.ID); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update. Users may edit their own profile; role
// and active-flag changes are reserved for admins.
func (s *UserService) Update(ctx context.Context, p authz.Principal, id string, in UpdateUserInput, origin string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	if user.TenantID != nil {
		if err := authz.AuthorizeTenantMatch(p, *user.TenantID); err != nil {
			return nil, err
		}
	} else if !p.IsSuperAdmin() {
		return nil, authz.ErrAccessDenied
	}

	if err := authz.Can(p, authz.ActionUpdate, authz.ResourceUser, user.ID); err != nil {
		return nil, err
	}
	if p.Role == authz.RoleUser && (in.Role != nil || in.IsActive != nil) {
		return nil, authz.ErrForbidden
	}

	if in.Email != nil {
		if *in.Email == "" {
			return nil, validationf("email cannot be empty")
		}
		user.Email = strings.ToLower(*in.Email)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, translate(err)
		}
		user.PasswordHash = string(hash)
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Role != nil {
		if *in.Role == string(authz.RoleSuperAdmin) || !authz.ValidRole(*in.Role) {
			return nil, validationf("invalid role %q", *in.Role)
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, translate(err)
	}

	s.recorder.Record(ctx, user.TenantID, p.UserID, audit.ActionUpdateUser, "user", user.ID, origin)
	return &user, nil
}

// Delete removes a user. Admins only, and never themselves: an admin
// deleting its own account could orphan the tenant.
func (s *UserService) Delete(ctx context.Context, p authz.Principal, id, origin string) error {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return translate(err)
	}

	if user.TenantID != nil {
		if err := authz.AuthorizeTenantMatch(p, *user.TenantID); err != nil {
			return err
		}
	} else if !p.IsSuperAdmin() {
		return authz.ErrAccessDenied
	}

	if err := authz.Can(p, authz.ActionDelete, authz.ResourceUser, ""); err != nil {
		return err
	}
	if p.UserID == user.ID {
		return authz.ErrForbidden
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := s.db.WithContext(ctx).Delete(&user).Error; err != nil {
		return translate(err)
	}

	s.recorder.Record(ctx, user.TenantID, p.UserID, audit.ActionDeleteUser, "user", user.ID, origin)
	return nil
}
