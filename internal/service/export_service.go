package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/pkg/catalog"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
	"github.com/noah-isme/spool-tracker/pkg/export"
)

type inventorySource interface {
	All(ctx context.Context) ([]models.Spool, error)
}

// ExportResult is a rendered inventory document.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the spool inventory as a downloadable file.
type ExportService struct {
	repo      inventorySource
	types     *catalog.Catalog
	renderers map[string]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an export service with one renderer per format.
func NewExportService(repo inventorySource, types *catalog.Catalog, renderers map[string]export.Renderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderers == nil {
		renderers = map[string]export.Renderer{
			"csv": export.NewCSVExporter(','),
			"pdf": export.NewPDFExporter(),
		}
	}
	return &ExportService{repo: repo, types: types, renderers: renderers, logger: logger, now: time.Now}
}

// Inventory renders every spool in the requested format.
func (s *ExportService) Inventory(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation(fmt.Sprintf("unsupported export format %q", format))
	}

	spools, err := s.repo.All(ctx)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to load spools")
	}

	dataset := export.Dataset{
		Title:   "Filament inventory",
		Headers: []string{"ID", "Name", "Material", "Type", "Remaining (g)", "Filament (g)", "Remaining %", "Status", "RFID 1", "RFID 2", "Code"},
		Rows:    make([][]string, 0, len(spools)),
	}
	for i := range spools {
		dataset.Rows = append(dataset.Rows, s.row(&spools[i]))
	}

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("inventory exported", zap.String("format", format), zap.Int("rows", len(spools)))
	return &ExportResult{
		Filename:    fmt.Sprintf("spools-%s.%s", s.now().UTC().Format("20060102-150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *ExportService) row(spool *models.Spool) []string {
	var typeName, filament, percent string
	if s.types != nil {
		if t, ok := s.types.Lookup(spool.SpoolType); ok {
			typeName = t.Name
			filament = formatGrams(FilamentWeight(spool, t))
			percent = strconv.FormatFloat(RemainingPercent(spool, t), 'f', 1, 64)
		}
	}
	var status string
	if spool.Status != nil {
		status = string(*spool.Status)
	}
	return []string{
		strconv.FormatInt(spool.ID, 10),
		models.DisplayName(spool),
		string(spool.Material),
		typeName,
		formatGrams(spool.RemainingWeight),
		filament,
		percent,
		status,
		deref(spool.RFID1),
		deref(spool.RFID2),
		deref(spool.Code),
	}
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
