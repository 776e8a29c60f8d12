package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/spool-tracker/internal/models"
)

// ErrDuplicateTag signals that an RFID tag or code is already held by another spool.
var ErrDuplicateTag = errors.New("tag already assigned to another spool")

// ErrSlotTaken signals that a second RFID slot was filled between lookup and claim.
var ErrSlotTaken = errors.New("second rfid slot already claimed")

const spoolColumns = `id, material, manufacturer_id, spool_type, name, color, color_hex, color_pantone, diameter, weight, remaining_weight, status, opened_at, bought_at, empty_at, link, code, rfid1, rfid2, created_at`

const uniqueViolation = "23505"

// SpoolRepository provides database access for spools.
type SpoolRepository struct {
	db *sqlx.DB
}

// NewSpoolRepository creates a new instance of SpoolRepository.
func NewSpoolRepository(db *sqlx.DB) *SpoolRepository {
	return &SpoolRepository{db: db}
}

// FindByID returns a spool by identifier.
func (r *SpoolRepository) FindByID(ctx context.Context, id int64) (*models.Spool, error) {
	query := `SELECT ` + spoolColumns + ` FROM spools WHERE id = $1`
	var spool models.Spool
	if err := r.db.GetContext(ctx, &spool, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find spool by id: %w", err)
	}
	return &spool, nil
}

// FindByCode returns spools carrying the QR code. At most one is expected.
func (r *SpoolRepository) FindByCode(ctx context.Context, code string) ([]models.Spool, error) {
	query := `SELECT ` + spoolColumns + ` FROM spools WHERE code = $1 ORDER BY id`
	var spools []models.Spool
	if err := r.db.SelectContext(ctx, &spools, query, code); err != nil {
		return nil, fmt.Errorf("find spool by code: %w", err)
	}
	return spools, nil
}

// FindByRFID returns spools holding tag in either slot.
func (r *SpoolRepository) FindByRFID(ctx context.Context, tag string) ([]models.Spool, error) {
	query := `SELECT ` + spoolColumns + ` FROM spools WHERE rfid1 = $1 OR rfid2 = $1 ORDER BY id`
	var spools []models.Spool
	if err := r.db.SelectContext(ctx, &spools, query, tag); err != nil {
		return nil, fmt.Errorf("find spool by rfid: %w", err)
	}
	return spools, nil
}

// FindMissingSecondRFID returns spools that carry a first tag but no second,
// oldest first.
func (r *SpoolRepository) FindMissingSecondRFID(ctx context.Context) ([]models.Spool, error) {
	query := `SELECT ` + spoolColumns + ` FROM spools WHERE rfid1 IS NOT NULL AND rfid2 IS NULL ORDER BY created_at ASC, id ASC`
	var spools []models.Spool
	if err := r.db.SelectContext(ctx, &spools, query); err != nil {
		return nil, fmt.Errorf("find spools missing second rfid: %w", err)
	}
	return spools, nil
}

// List returns spools ordered by creation with total count.
func (r *SpoolRepository) List(ctx context.Context, filter models.SpoolFilter) ([]models.Spool, int, error) {
	baseQuery := `FROM spools WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Material != nil {
		conditions = append(conditions, fmt.Sprintf("material = $%d", len(args)+1))
		args = append(args, *filter.Material)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(color) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at ASC, id ASC LIMIT %d OFFSET %d", spoolColumns, baseQuery, pageSize, offset)
	var spools []models.Spool
	if err := r.db.SelectContext(ctx, &spools, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list spools: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count spools: %w", err)
	}
	return spools, total, nil
}

// All returns every spool for exports.
func (r *SpoolRepository) All(ctx context.Context) ([]models.Spool, error) {
	query := `SELECT ` + spoolColumns + ` FROM spools ORDER BY created_at ASC, id ASC`
	var spools []models.Spool
	if err := r.db.SelectContext(ctx, &spools, query); err != nil {
		return nil, fmt.Errorf("select all spools: %w", err)
	}
	return spools, nil
}

// Create inserts a spool and fills in the generated id and created_at.
func (r *SpoolRepository) Create(ctx context.Context, spool *models.Spool) error {
	const query = `INSERT INTO spools (material, manufacturer_id, spool_type, name, color, color_hex, color_pantone, diameter, weight, remaining_weight, status, opened_at, bought_at, empty_at, link, code, rfid1, rfid2)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		spool.Material, spool.ManufacturerID, spool.SpoolType, spool.Name, spool.Color, spool.ColorHex, spool.ColorPantone,
		spool.Diameter, spool.Weight, spool.RemainingWeight, spool.Status, spool.OpenedAt, spool.BoughtAt, spool.EmptyAt,
		spool.Link, spool.Code, spool.RFID1, spool.RFID2,
	)
	if err := row.Scan(&spool.ID, &spool.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create spool: %w", ErrDuplicateTag)
		}
		return fmt.Errorf("create spool: %w", err)
	}
	return nil
}

// Update replaces every mutable column of an existing spool.
func (r *SpoolRepository) Update(ctx context.Context, spool *models.Spool) error {
	const query = `UPDATE spools SET material = $2, manufacturer_id = $3, spool_type = $4, name = $5, color = $6, color_hex = $7, color_pantone = $8, diameter = $9, weight = $10, remaining_weight = $11, status = $12, opened_at = $13, bought_at = $14, empty_at = $15, link = $16, code = $17, rfid1 = $18, rfid2 = $19 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		spool.ID, spool.Material, spool.ManufacturerID, spool.SpoolType, spool.Name, spool.Color, spool.ColorHex, spool.ColorPantone,
		spool.Diameter, spool.Weight, spool.RemainingWeight, spool.Status, spool.OpenedAt, spool.BoughtAt, spool.EmptyAt,
		spool.Link, spool.Code, spool.RFID1, spool.RFID2,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update spool: %w", ErrDuplicateTag)
		}
		return fmt.Errorf("update spool: %w", err)
	}
	return requireAffected(res)
}

// UpdateRemainingWeight sets the last observed gross weight.
func (r *SpoolRepository) UpdateRemainingWeight(ctx context.Context, id int64, weight float64) error {
	const query = `UPDATE spools SET remaining_weight = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, weight)
	if err != nil {
		return fmt.Errorf("update remaining weight: %w", err)
	}
	return requireAffected(res)
}

// ClaimSecondRFID fills rfid2 and the weight only while the slot is still empty.
func (r *SpoolRepository) ClaimSecondRFID(ctx context.Context, id int64, tag string, weight float64) error {
	const query = `UPDATE spools SET rfid2 = $2, remaining_weight = $3 WHERE id = $1 AND rfid2 IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, tag, weight)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("claim second rfid: %w", ErrDuplicateTag)
		}
		return fmt.Errorf("claim second rfid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim second rfid: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("claim second rfid: %w", ErrSlotTaken)
	}
	return nil
}

// Delete removes a spool permanently.
func (r *SpoolRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM spools WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete spool: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
