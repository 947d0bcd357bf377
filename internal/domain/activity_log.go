package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded in the activity log.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// ActivityLog is an append-only audit record describing a single
// create/update/delete mutation on a catalog entity.
type ActivityLog struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	SubjectType string         `json:"subject_type" db:"subject_type"`
	SubjectID   int64          `json:"subject_id" db:"subject_id"`
	Action      string         `json:"action" db:"action"`
	Properties  map[string]any `json:"properties" db:"properties"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
