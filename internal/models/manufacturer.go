package models

import "time"

// Manufacturer produces filament.
type Manufacturer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Link      *string   `db:"link" json:"link,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
