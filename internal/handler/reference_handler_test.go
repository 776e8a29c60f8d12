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
	"github.com/noah-isme/spool-tracker/pkg/catalog"
)

type fakeManufacturerSrv struct {
	created []dto.CreateManufacturerRequest
}

func (f *fakeManufacturerSrv) List(ctx context.Context) ([]models.Manufacturer, error) {
	return []models.Manufacturer{{ID: 1, Name: "Prusament"}}, nil
}

func (f *fakeManufacturerSrv) Create(ctx context.Context, req dto.CreateManufacturerRequest) (*models.Manufacturer, error) {
	f.created = append(f.created, req)
	return &models.Manufacturer{ID: 2, Name: req.Name}, nil
}

func TestReferenceHandler(t *testing.T) {
	types, err := catalog.Builtin()
	require.NoError(t, err)
	srv := &fakeManufacturerSrv{}
	h := NewReferenceHandler(srv, types)

	c, rec := newContext(http.MethodGet, "/spool-types", nil)
	h.ListSpoolTypes(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "prusament-1kg", env.Meta["default"])
	assert.Contains(t, string(env.Data), `"spool_weight":610`)

	c, rec = newContext(http.MethodGet, "/manufacturers", nil)
	h.ListManufacturers(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodPost, "/manufacturers", strings.NewReader(`{"name":"DasFilament"}`))
	h.CreateManufacturer(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, srv.created, 1)
	assert.Equal(t, "DasFilament", srv.created[0].Name)
}
