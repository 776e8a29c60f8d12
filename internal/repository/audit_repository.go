package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/spool-tracker/internal/models"
)

// AuditRepository persists audit entries. It only ever appends.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends entry and fills in id and created_at.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	const query = `INSERT INTO audit_log (action, row_id, old_values, new_values, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	// lib/pq sends []byte as bytea, jsonb columns need text
	oldValues := string(snapshotOrEmpty(entry.OldValues))
	newValues := string(snapshotOrEmpty(entry.NewValues))
	if err := r.db.QueryRowxContext(ctx, query, entry.Action, entry.RowID, oldValues, newValues, entry.UserID).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	const query = `SELECT id, action, row_id, old_values, new_values, user_id, created_at FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// ListByRow returns the history of one spool, newest first.
func (r *AuditRepository) ListByRow(ctx context.Context, rowID int64, limit int) ([]models.AuditEntry, error) {
	const query = `SELECT id, action, row_id, old_values, new_values, user_id, created_at FROM audit_log WHERE row_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, rowID, limit); err != nil {
		return nil, fmt.Errorf("list audit entries for row %d: %w", rowID, err)
	}
	return entries, nil
}

func snapshotOrEmpty(raw []byte) []byte {
	if len(raw) == 0 {
		return models.EmptySnapshot
	}
	return raw
}
