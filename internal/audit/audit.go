package audit

import (
	"context"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subject types recorded in activity log entries.
const (
	SubjectCategory = "category"
	SubjectProduct  = "product"
)

// Sink receives audit events fired after successful mutations. It is
// injected into the services so the side effect stays mockable.
type Sink interface {
	Created(ctx context.Context, subjectType string, subjectID int64, snapshot map[string]any)
	Updated(ctx context.Context, subjectType string, subjectID int64, changes map[string]any)
	Deleted(ctx context.Context, subjectType string, subjectID int64, name string)
}

// Recorder writes audit entries to the activity log. Persistence failures
// are logged and swallowed: the audit trail is a best-effort side channel
// and must never fail the mutation that triggered it.
type Recorder struct {
	repo   repository.ActivityLogRepository
	logger *zap.Logger
}

// NewRecorder creates a Recorder backed by the activity log repository
func NewRecorder(repo repository.ActivityLogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Created logs a create action with the full post-create record snapshot
func (r *Recorder) Created(ctx context.Context, subjectType string, subjectID int64, snapshot map[string]any) {
	r.record(ctx, subjectType, subjectID, domain.AuditActionCreate, snapshot)
}

// Updated logs an update action with the changed fields only, each as an
// [old, new] pair
func (r *Recorder) Updated(ctx context.Context, subjectType string, subjectID int64, changes map[string]any) {
	r.record(ctx, subjectType, subjectID, domain.AuditActionUpdate, changes)
}

// Deleted logs a delete action with a minimal {id, name} snapshot captured
// before removal
func (r *Recorder) Deleted(ctx context.Context, subjectType string, subjectID int64, name string) {
	r.record(ctx, subjectType, subjectID, domain.AuditActionDelete, map[string]any{
		"id":   subjectID,
		"name": name,
	})
}

func (r *Recorder) record(ctx context.Context, subjectType string, subjectID int64, action string, properties map[string]any) {
	entry := &domain.ActivityLog{
		ID:          uuid.New(),
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Action:      action,
		Properties:  properties,
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("Failed to record audit entry",
			zap.Error(err),
			zap.String("subject_type", subjectType),
			zap.Int64("subject_id", subjectID),
			zap.String("action", action),
		)
	}
}
