package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spool-tracker/internal/dto"
	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/service"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

type fakeSpoolSrv struct {
	views      []dto.SpoolView
	cacheHit   bool
	lastFilter models.SpoolFilter
	lastUsage  dto.UsageRequest
	lastUser   *int64
	deleted    []int64
	err        error
}

func (f *fakeSpoolSrv) List(ctx context.Context, filter models.SpoolFilter) ([]dto.SpoolView, *models.Pagination, bool, error) {
	f.lastFilter = filter
	return f.views, &models.Pagination{Page: 1, PageSize: 50, TotalCount: len(f.views)}, f.cacheHit, f.err
}

func (f *fakeSpoolSrv) Get(ctx context.Context, id int64) (*dto.SpoolView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SpoolView{Spool: models.Spool{ID: id}}, nil
}

func (f *fakeSpoolSrv) FindByCode(ctx context.Context, code string) (*dto.SpoolView, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no spool found for code")
}

func (f *fakeSpoolSrv) FindByRFID(ctx context.Context, tag string) (*dto.SpoolView, error) {
	return &dto.SpoolView{Spool: models.Spool{ID: 1, RFID1: &tag}}, nil
}

func (f *fakeSpoolSrv) Create(ctx context.Context, req dto.SpoolRequest, userID *int64) (*models.Spool, error) {
	f.lastUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Spool{ID: 10, Material: req.Material}, nil
}

func (f *fakeSpoolSrv) Update(ctx context.Context, id int64, req dto.SpoolRequest, userID *int64) (*models.Spool, error) {
	return &models.Spool{ID: id, Material: req.Material}, f.err
}

func (f *fakeSpoolSrv) Delete(ctx context.Context, id int64, userID *int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeSpoolSrv) RecordUsage(ctx context.Context, id int64, req dto.UsageRequest, userID *int64) (*dto.SpoolView, error) {
	f.lastUsage = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.SpoolView{Spool: models.Spool{ID: id, RemainingWeight: 500}}, nil
}

type fakeExporter struct{ format string }

func (f *fakeExporter) Inventory(ctx context.Context, format string) (*service.ExportResult, error) {
	f.format = format
	return &service.ExportResult{Filename: "spools.csv", ContentType: "text/csv", Body: []byte("ID\n1\n")}, nil
}

func TestSpoolHandlerListFilters(t *testing.T) {
	srv := &fakeSpoolSrv{views: []dto.SpoolView{{Spool: models.Spool{ID: 1}}}, cacheHit: true}
	h := NewSpoolHandler(srv, nil)
	c, rec := newContext(http.MethodGet, "/spools?material=PLA&status=opened&search=red&page=2&limit=10", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastFilter.Material)
	assert.Equal(t, models.MaterialPLA, *srv.lastFilter.Material)
	assert.Equal(t, models.SpoolStatusOpened, *srv.lastFilter.Status)
	assert.Equal(t, "red", srv.lastFilter.Search)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 10, srv.lastFilter.PageSize)
	assert.Equal(t, true, decode(t, rec).Meta["cache_hit"])

	c, rec = newContext(http.MethodGet, "/spools?material=Glass", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSpoolHandlerCreate(t *testing.T) {
	srv := &fakeSpoolSrv{}
	h := NewSpoolHandler(srv, nil)

	c, rec := newContext(http.MethodPost, "/spools", strings.NewReader(`{"material":"PLA","name":"Red","weight":1200}`))
	withUser(c, 5, models.RoleOperator)
	h.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decode(t, rec).Success)
	require.NotNil(t, srv.lastUser)
	assert.Equal(t, int64(5), *srv.lastUser)

	c, rec = newContext(http.MethodPost, "/spools", strings.NewReader(`{"material":`))
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid payload", env.Error.Message)
}

func TestSpoolHandlerDeleteAndBadID(t *testing.T) {
	srv := &fakeSpoolSrv{}
	h := NewSpoolHandler(srv, nil)

	c, rec := newContext(http.MethodDelete, "/spools/4", nil)
	c.AddParam("id", "4")
	h.Delete(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{4}, srv.deleted)

	c, rec = newContext(http.MethodDelete, "/spools/abc", nil)
	c.AddParam("id", "abc")
	h.Delete(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "spool not found")
	c, rec = newContext(http.MethodDelete, "/spools/9", nil)
	c.AddParam("id", "9")
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestSpoolHandlerRecordUsage(t *testing.T) {
	srv := &fakeSpoolSrv{}
	h := NewSpoolHandler(srv, nil)

	c, rec := newContext(http.MethodPost, "/spools/1/usage", strings.NewReader(`{"used_weight":25.5}`))
	c.AddParam("id", "1")
	h.RecordUsage(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastUsage.UsedWeight)
	assert.Equal(t, 25.5, *srv.lastUsage.UsedWeight)
	assert.Nil(t, srv.lastUsage.RemainingWeight)

	srv.err = appErrors.Validation("supply exactly one of used-weight or remaining-weight")
	c, rec = newContext(http.MethodPost, "/spools/1/usage", strings.NewReader(`{"used_weight":1,"remaining_weight":2}`))
	c.AddParam("id", "1")
	h.RecordUsage(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "supply exactly one of used-weight or remaining-weight", decode(t, rec).Error.Message)
}

func TestSpoolHandlerLookupsAndExport(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewSpoolHandler(&fakeSpoolSrv{}, exporter)

	c, rec := newContext(http.MethodGet, "/spools/by-code/x", nil)
	c.AddParam("code", "x")
	h.ByCode(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newContext(http.MethodGet, "/spools/by-rfid/AAA", nil)
	c.AddParam("tag", "AAA")
	h.ByRFID(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/spools/export?format=pdf", nil)
	h.Export(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pdf", exporter.format)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "spools.csv")
}
