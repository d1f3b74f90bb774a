package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/festory/festory/internal/persistence"
)

// SnapshotRepository implements persistence.SnapshotRepository using SQLite.
type SnapshotRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSnapshotRepository creates a new SQLite snapshot repository.
func NewSnapshotRepository(pool *ConnectionPool) *SnapshotRepository {
	return &SnapshotRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// SaveSnapshot writes the snapshot for its namespace, replacing any previous
// row.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, record persistence.SnapshotRecord) error {
	if record.Namespace == "" {
		return persistence.ErrConstraintViolation
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO snapshots (namespace, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	_, err := r.helper.Exec(ctx, query,
		record.Namespace,
		record.Payload,
		record.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetSnapshot retrieves the snapshot stored under the namespace.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, namespace string) (persistence.SnapshotRecord, error) {
	if namespace == "" {
		return persistence.SnapshotRecord{}, persistence.ErrNotFound
	}

	query := "SELECT namespace, payload, updated_at FROM snapshots WHERE namespace = ?"
	var (
		record       persistence.SnapshotRecord
		updatedAtStr string
	)
	err := r.helper.QueryRow(ctx, query, namespace).Scan(&record.Namespace, &record.Payload, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.SnapshotRecord{}, persistence.ErrNotFound
		}
		return persistence.SnapshotRecord{}, r.mapper.MapError(err)
	}

	if record.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.SnapshotRecord{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return record, nil
}

// DeleteSnapshot removes the snapshot stored under the namespace.
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, namespace string) error {
	if namespace == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM snapshots WHERE namespace = ?", namespace)
	if err != nil {
		return r.mapper.MapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
