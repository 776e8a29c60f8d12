package models

import (
	"encoding/json"
	"time"
)

// AuditAction names the kind of mutation an audit entry describes.
type AuditAction string

const (
	AuditActionNewFilamentStart AuditAction = "new_filament_start"
	AuditActionNewFilamentEnd   AuditAction = "new_filament_end"
	AuditActionUpdateFilament   AuditAction = "update_filament"
	AuditActionDeleteFilament   AuditAction = "delete_filament"
	AuditActionWeightFilament   AuditAction = "weight_filament"
)

// EmptySnapshot stands in for the missing side of a create or delete.
var EmptySnapshot = json.RawMessage(`{}`)

// AuditEntry is an append-only record of one spool mutation. RowID is not a
// foreign key; entries survive deletion of the spool they describe.
type AuditEntry struct {
	ID        int64           `db:"id" json:"id"`
	Action    AuditAction     `db:"action" json:"action"`
	RowID     int64           `db:"row_id" json:"row_id"`
	OldValues json.RawMessage `db:"old_values" json:"old_values"`
	NewValues json.RawMessage `db:"new_values" json:"new_values"`
	UserID    *int64          `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
