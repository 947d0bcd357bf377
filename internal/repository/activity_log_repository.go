package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"catalogo-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// ActivityLogRepository appends audit entries. The log is write-only from
// this service's point of view; nothing in the API reads it back.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *domain.ActivityLog) error
}

type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new instance of ActivityLogRepository
func NewActivityLogRepository(db *sql.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// Append inserts a single audit entry
func (r *activityLogRepository) Append(ctx context.Context, entry *domain.ActivityLog) error {
	properties, err := json.Marshal(entry.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode activity properties: %w", err)
	}

	query := `
		INSERT INTO activity_log (id, subject_type, subject_id, action, properties)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		entry.ID,
		entry.SubjectType,
		entry.SubjectID,
		entry.Action,
		properties,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append activity log entry: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
