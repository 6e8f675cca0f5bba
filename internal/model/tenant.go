package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant status values
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusTrial     = "trial"
)

// Subscription plans
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Tenant represents an isolated organization account
// This is the core of our multi-tenant architecture: every scoped record
// carries a tenant ID referencing one of these rows. The subdomain is the
// globally unique login key and never changes after registration.
type Tenant struct {
	ID               string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name             string    `json:"name" gorm:"type:varchar(100);not null"`
	Subdomain        string    `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Status           string    `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	SubscriptionPlan string    `json:"subscription_plan" gorm:"type:varchar(20);not null;default:'free'"`
	MaxUsers         int       `json:"max_users" gorm:"not null;default:5"`
	MaxProjects      int       `json:"max_projects" gorm:"not null;default:3"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// ValidTenantStatus reports whether s is a known tenant status
func ValidTenantStatus(s string) bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusTrial:
		return true
	}
	return false
}

// ValidPlan reports whether p is a known subscription plan
func ValidPlan(p string) bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// PlanLimits returns the default user and project caps for a subscription plan
func PlanLimits(plan string) (maxUsers, maxProjects int) {
	switch plan {
	case PlanEnterprise:
		return 100, 100
	case PlanPro:
		return 25, 15
	default:
		return 5, 3
	}
}
