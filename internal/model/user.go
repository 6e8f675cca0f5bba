package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated account stored in the database
// TenantID is nil exclusively for super_admin rows; every other user belongs
// to exactly one tenant. The (tenant_id, email) pair is unique, and because
// SQL unique indexes ignore NULLs, super_admin rows escape the compound key
// exactly as intended.
type User struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID     *string   `json:"tenant_id,omitempty" gorm:"type:varchar(36);uniqueIndex:idx_tenant_email"`
	Email        string    `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName     string    `json:"full_name" gorm:"type:varchar(100)"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
