package audit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"workspace-service/internal/audit"
	"workspace-service/internal/model"
)

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AuditLog{}))
	return db
}

func TestRecord(t *testing.T) {
	db := newAuditDB(t)
	recorder := audit.NewRecorder(db, zap.NewNop())

	tenantID := "tenant-1"
	recorder.Record(context.Background(), &tenantID, "user-1", audit.ActionCreateProject, "project", "project-1", "203.0.113.9")

	var entries []model.AuditLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.NotEmpty(t, entry.ID)
	require.NotNil(t, entry.TenantID)
	assert.Equal(t, "tenant-1", *entry.TenantID)
	assert.Equal(t, "user-1", entry.ActorUserID)
	assert.Equal(t, "CREATE_PROJECT", entry.Action)
	assert.Equal(t, "project", entry.ResourceKind)
	assert.Equal(t, "project-1", entry.ResourceID)
	assert.Equal(t, "203.0.113.9", entry.OriginAddress)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestRecord_NilTenant(t *testing.T) {
	db := newAuditDB(t)
	recorder := audit.NewRecorder(db, zap.NewNop())

	recorder.Record(context.Background(), nil, "root-1", audit.ActionUpdateTenant, "tenant", "tenant-1", "")

	var entry model.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Nil(t, entry.TenantID)
}

// A failing audit write must never reach the caller; the primary mutation
// has already committed by the time Record runs.
func TestRecord_SwallowsWriteFailure(t *testing.T) {
	db := newAuditDB(t)
	require.NoError(t, db.Migrator().DropTable(&model.AuditLog{}))

	recorder := audit.NewRecorder(db, zap.NewNop())
	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), nil, "user-1", audit.ActionDeleteTask, "task", "task-1", "")
	})
}
