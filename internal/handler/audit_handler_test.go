package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/spool-tracker/internal/models"
)

type fakeAuditLister struct {
	limit   int
	spoolID int64
}

func (f *fakeAuditLister) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	f.limit = limit
	return []models.AuditEntry{{ID: 2, Action: models.AuditActionWeightFilament}, {ID: 1, Action: models.AuditActionNewFilamentStart}}, nil
}

func (f *fakeAuditLister) ListForSpool(ctx context.Context, spoolID int64, limit int) ([]models.AuditEntry, error) {
	f.spoolID, f.limit = spoolID, limit
	return nil, nil
}

func TestAuditHandlerList(t *testing.T) {
	lister := &fakeAuditLister{}
	h := NewAuditHandler(lister)

	c, rec := newContext(http.MethodGet, "/audit-logs", nil)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, lister.limit)
	assert.Contains(t, string(decode(t, rec).Data), `"action":"weight_filament"`)

	c, rec = newContext(http.MethodGet, "/audit-logs?limit=20&spool_id=7", nil)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), lister.spoolID)
	assert.Equal(t, 20, lister.limit)

	c, rec = newContext(http.MethodGet, "/audit-logs?limit=many", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
