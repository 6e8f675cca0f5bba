package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a state-changing action. Rows are
// never updated or deleted by application code. TenantID is nil for actions
// a super_admin performs outside any tenant context.
type AuditLog struct {
	ID            string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID      *string   `json:"tenant_id,omitempty" gorm:"type:varchar(36);index"`
	ActorUserID   string    `json:"actor_user_id" gorm:"type:varchar(36);index;not null"`
	Action        string    `json:"action" gorm:"type:varchar(50);not null"`
	ResourceKind  string    `json:"resource_kind" gorm:"type:varchar(30);not null"`
	ResourceID    string    `json:"resource_id" gorm:"type:varchar(36)"`
	OriginAddress string    `json:"origin_address" gorm:"type:varchar(64)"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
