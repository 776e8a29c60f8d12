package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spool-tracker/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var spoolColumnNames = []string{"id", "material", "manufacturer_id", "spool_type", "name", "color", "color_hex", "color_pantone", "diameter", "weight", "remaining_weight", "status", "opened_at", "bought_at", "empty_at", "link", "code", "rfid1", "rfid2", "created_at"}

func spoolRow(rows *sqlmock.Rows, id int64, rfid1, rfid2 interface{}, remaining float64, createdAt time.Time) *sqlmock.Rows {
	return rows.AddRow(id, "PLA", nil, "", "Galaxy", nil, nil, nil, 175, 1200.0, remaining, "OPENED", nil, nil, nil, nil, nil, rfid1, rfid2, createdAt)
}

func TestSpoolRepositoryFindByRFID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	rows := spoolRow(sqlmock.NewRows(spoolColumnNames), 1, "AAA", "BBB", 900, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM spools WHERE rfid1 = $1 OR rfid2 = $1 ORDER BY id")).
		WithArgs("BBB").
		WillReturnRows(rows)

	spools, err := repo.FindByRFID(context.Background(), "BBB")
	require.NoError(t, err)
	require.Len(t, spools, 1)
	assert.Equal(t, int64(1), spools[0].ID)
	assert.Equal(t, "BBB", *spools[0].RFID2)
	assert.Equal(t, models.MaterialPLA, spools[0].Material)
	require.NotNil(t, spools[0].Status)
	assert.Equal(t, models.SpoolStatusOpened, *spools[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryFindMissingSecondRFIDOrdersOldestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	older := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows(spoolColumnNames)
	spoolRow(rows, 4, "OLD", nil, 800, older)
	spoolRow(rows, 9, "NEW", nil, 950, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE rfid1 IS NOT NULL AND rfid2 IS NULL ORDER BY created_at ASC, id ASC")).
		WillReturnRows(rows)

	spools, err := repo.FindMissingSecondRFID(context.Background())
	require.NoError(t, err)
	require.Len(t, spools, 2)
	assert.Equal(t, int64(4), spools[0].ID)
	assert.Nil(t, spools[0].RFID2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	mock.ExpectQuery("FROM spools WHERE id = ").WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO spools").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	tag := "AAA"
	spool := &models.Spool{Material: models.MaterialOther, RemainingWeight: 1000, RFID1: &tag}
	require.NoError(t, repo.Create(context.Background(), spool))
	assert.Equal(t, int64(7), spool.ID)
	assert.Equal(t, now, spool.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryCreateDuplicateTag(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	mock.ExpectQuery("INSERT INTO spools").WillReturnError(&pq.Error{Code: "23505", Constraint: "spools_rfid1_key"})

	tag := "AAA"
	err := repo.Create(context.Background(), &models.Spool{RemainingWeight: 1000, RFID1: &tag})
	assert.ErrorIs(t, err, ErrDuplicateTag)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryClaimSecondRFID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE spools SET rfid2 = $2, remaining_weight = $3 WHERE id = $1 AND rfid2 IS NULL")).
		WithArgs(int64(1), "BBB", 900.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE spools SET rfid2").
		WithArgs(int64(1), "CCC", 880.0).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ClaimSecondRFID(context.Background(), 1, "BBB", 900))
	err := repo.ClaimSecondRFID(context.Background(), 1, "CCC", 880)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM spools WHERE id = $1")).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryUpdateRemainingWeight(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE spools SET remaining_weight = $2 WHERE id = $1")).
		WithArgs(int64(3), 750.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRemainingWeight(context.Background(), 3, 750))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	material := models.MaterialPLA
	rows := spoolRow(sqlmock.NewRows(spoolColumnNames), 1, nil, nil, 1000, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM spools WHERE 1=1 AND material = $1 ORDER BY created_at ASC, id ASC LIMIT 50 OFFSET 0")).
		WithArgs(material).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM spools WHERE 1=1 AND material = $1")).
		WithArgs(material).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	spools, total, err := repo.List(context.Background(), models.SpoolFilter{Material: &material})
	require.NoError(t, err)
	assert.Len(t, spools, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpoolRepositoryClaimSecondRFIDHeldAsFirstTagElsewhere(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSpoolRepository(db)

	// the spool_tags trigger rejects a tag another spool holds in rfid1
	mock.ExpectExec("UPDATE spools SET rfid2").
		WithArgs(int64(1), "AAA", 900.0).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "spool_tags_pkey"})

	err := repo.ClaimSecondRFID(context.Background(), 1, "AAA", 900)
	assert.ErrorIs(t, err, ErrDuplicateTag)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
