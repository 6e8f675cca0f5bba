package audit

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/prometheus"
)

// Audit action tags
const (
	ActionRegisterTenant = "REGISTER_TENANT"
	ActionUpdateTenant   = "UPDATE_TENANT"
	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionCreateProject  = "CREATE_PROJECT"
	ActionUpdateProject  = "UPDATE_PROJECT"
	ActionDeleteProject  = "DELETE_PROJECT"
	ActionCreateTask     = "CREATE_TASK"
	ActionUpdateTask     = "UPDATE_TASK"
	ActionDeleteTask     = "DELETE_TASK"
)

// Recorder appends immutable audit entries after successful mutations
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecorder creates an audit recorder writing to the given database
func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Record appends one audit entry. It is fire-and-forget with respect to the
// primary operation: by the time Record runs the mutation has already
// committed, so a write failure is logged and counted but never surfaced to
// the caller and never retried.
func (r *Recorder) Record(ctx context.Context, tenantID *string, actorUserID, action, resourceKind, resourceID, originAddress string) {
	entry := model.AuditLog{
		TenantID:      tenantID,
		ActorUserID:   actorUserID,
		Action:        action,
		ResourceKind:  resourceKind,
		ResourceID:    resourceID,
		OriginAddress: originAddress,
	}

	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		prometheus.RecordAuditFailure()
		r.log.Error("failed to write audit entry",
			zap.String("action", action),
			zap.String("resource_kind", resourceKind),
			zap.String("resource_id", resourceID),
			zap.Error(err))
	}
}
