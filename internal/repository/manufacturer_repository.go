package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/spool-tracker/internal/models"
)

// ErrDuplicateName signals a manufacturer name that is already stored.
var ErrDuplicateName = errors.New("manufacturer name already exists")

// ManufacturerRepository provides database access for manufacturers.
type ManufacturerRepository struct {
	db *sqlx.DB
}

// NewManufacturerRepository creates a new instance of ManufacturerRepository.
func NewManufacturerRepository(db *sqlx.DB) *ManufacturerRepository {
	return &ManufacturerRepository{db: db}
}

// List returns manufacturers sorted by name.
func (r *ManufacturerRepository) List(ctx context.Context) ([]models.Manufacturer, error) {
	const query = `SELECT id, name, link, created_at FROM manufacturers ORDER BY name ASC, id ASC`
	var manufacturers []models.Manufacturer
	if err := r.db.SelectContext(ctx, &manufacturers, query); err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	return manufacturers, nil
}

// Exists reports whether a manufacturer with id is stored.
func (r *ManufacturerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM manufacturers WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check manufacturer: %w", err)
	}
	return exists, nil
}

// Create inserts a manufacturer. Names are unique.
func (r *ManufacturerRepository) Create(ctx context.Context, m *models.Manufacturer) error {
	const query = `INSERT INTO manufacturers (name, link) VALUES ($1, $2) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, m.Name, m.Link).Scan(&m.ID, &m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create manufacturer: %w", ErrDuplicateName)
		}
		return fmt.Errorf("create manufacturer: %w", err)
	}
	return nil
}
