package service_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
)

// newTestDB opens a fresh in-memory database migrated to the full schema.
// Each call gets its own named database so tests stay isolated while the
// shared cache keeps all pooled connections on the same data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Project{},
		&model.Task{},
		&model.AuditLog{},
	))
	return db
}

func newTestRecorder(db *gorm.DB) *audit.Recorder {
	return audit.NewRecorder(db, zap.NewNop())
}

func seedTenant(t *testing.T, db *gorm.DB, name, subdomain string, maxUsers, maxProjects int) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		Name:             name,
		Subdomain:        subdomain,
		Status:           model.TenantStatusActive,
		SubscriptionPlan: model.PlanFree,
		MaxUsers:         maxUsers,
		MaxProjects:      maxProjects,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedUser(t *testing.T, db *gorm.DB, tenantID *string, email, role string) *model.User {
	t.Helper()
	user := &model.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: "x",
		FullName:     email,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func principalFor(u *model.User) authz.Principal {
	return authz.Principal{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Email:    u.Email,
		Role:     authz.Role(u.Role),
	}
}

func superPrincipal() authz.Principal {
	return authz.Principal{
		UserID: uuid.NewString(),
		Email:  "root@platform.test",
		Role:   authz.RoleSuperAdmin,
	}
}

// countAuditEntries counts audit rows recorded for a given action tag
func countAuditEntries(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}
