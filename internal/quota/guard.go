package quota

import (
	"fmt"

	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/prometheus"
)

// Resource is a countable resource kind subject to per-tenant caps
type Resource string

const (
	ResourceUser    Resource = "user"
	ResourceProject Resource = "project"
)

// ExceededError reports a tenant resource cap being hit
type ExceededError struct {
	Resource Resource
	Current  int64
	Limit    int64
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("%s limit reached (%d of %d), upgrade your plan to add more", e.Resource, e.Current, e.Limit)
}

// CheckCreate verifies the tenant may create one more resource of the given
// kind. It reads the tenant's limit and the current count on the supplied
// handle, so that when tx is the transaction performing the subsequent
// insert, count-then-insert share one logical unit. Under read-committed
// isolation two concurrent creates can still both pass the count; that race
// window is an accepted limitation of the count-based cap.
//
// Callers skip this check entirely for super_admin-initiated operations.
func CheckCreate(tx *gorm.DB, tenantID string, resource Resource) error {
	var tenant model.Tenant
	if err := tx.First(&tenant, "id = ?", tenantID).Error; err != nil {
		return err
	}

	var limit int64
	var count int64
	switch resource {
	case ResourceProject:
		limit = int64(tenant.MaxProjects)
		if err := tx.Model(&model.Project{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}
	case ResourceUser:
		limit = int64(tenant.MaxUsers)
		if err := tx.Model(&model.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown quota resource %q", resource)
	}

	if count >= limit {
		prometheus.RecordQuotaDenied(string(resource))
		return &ExceededError{Resource: resource, Current: count, Limit: limit}
	}
	return nil
}
