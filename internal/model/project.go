package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project status values
const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

// Project represents a workspace project owned by a tenant
// TenantID is immutable after creation and always equals the creator's
// tenant, except for projects created by a super_admin with an injected
// tenant ID. Deleting a project deletes its tasks.
type Project struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID    string    `json:"tenant_id" gorm:"type:varchar(36);index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedBy   string    `json:"created_by" gorm:"type:varchar(36);index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Creator *User  `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Tasks   []Task `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// ValidProjectStatus reports whether s is a known project status
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}
