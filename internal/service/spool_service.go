package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/internal/dto"
	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/repository"
	"github.com/noah-isme/spool-tracker/pkg/catalog"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

const (
	defaultSpoolPageSize = 50
	maxSpoolPageSize     = 200
)

type spoolRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Spool, error)
	FindByCode(ctx context.Context, code string) ([]models.Spool, error)
	FindByRFID(ctx context.Context, tag string) ([]models.Spool, error)
	List(ctx context.Context, filter models.SpoolFilter) ([]models.Spool, int, error)
	Create(ctx context.Context, spool *models.Spool) error
	Update(ctx context.Context, spool *models.Spool) error
	UpdateRemainingWeight(ctx context.Context, id int64, weight float64) error
	Delete(ctx context.Context, id int64) error
}

type manufacturerLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type cachedSpoolPage struct {
	Items []dto.SpoolView `json:"items"`
	Total int             `json:"total"`
}

// SpoolService handles inventory use-cases for the operator UI.
type SpoolService struct {
	repo          spoolRepository
	manufacturers manufacturerLookup
	types         *catalog.Catalog
	audit         auditRecorder
	cache         *CacheService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewSpoolService constructs the spool service.
func NewSpoolService(repo spoolRepository, manufacturers manufacturerLookup, types *catalog.Catalog, audit auditRecorder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SpoolService {
	if validate == nil {
		validate = NewValidator(types)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpoolService{
		repo:          repo,
		manufacturers: manufacturers,
		types:         types,
		audit:         audit,
		cache:         cache,
		validator:     validate,
		logger:        logger,
	}
}

// List returns spools in creation order with derived display values. The
// second return value reports whether the page came from cache.
func (s *SpoolService) List(ctx context.Context, filter models.SpoolFilter) ([]dto.SpoolView, *models.Pagination, bool, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > maxSpoolPageSize {
		filter.PageSize = defaultSpoolPageSize
	}
	key := spoolListKey(filter)

	var page cachedSpoolPage
	hit := s.cache.Get(ctx, key, &page)
	if !hit {
		spools, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, nil, false, appErrors.Persistence(err, "failed to list spools")
		}
		page = cachedSpoolPage{Items: make([]dto.SpoolView, 0, len(spools)), Total: total}
		for i := range spools {
			page.Items = append(page.Items, s.view(&spools[i]))
		}
		s.cache.Set(ctx, key, page)
	}
	return page.Items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: page.Total}, hit, nil
}

// Get returns one spool.
func (s *SpoolService) Get(ctx context.Context, id int64) (*dto.SpoolView, error) {
	spool, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(spool)
	return &view, nil
}

// FindByCode resolves a QR label. It never creates a spool.
func (s *SpoolService) FindByCode(ctx context.Context, code string) (*dto.SpoolView, error) {
	code = strings.TrimSpace(code)
	if _, err := uuid.Parse(code); err != nil {
		return nil, appErrors.Validation("code must be a uuid")
	}
	spools, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to look up code")
	}
	if len(spools) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no spool found for code")
	}
	view := s.view(&spools[0])
	return &view, nil
}

// FindByRFID returns the spool holding tag in either slot.
func (s *SpoolService) FindByRFID(ctx context.Context, tag string) (*dto.SpoolView, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, appErrors.Validation("tag is required")
	}
	spools, err := s.repo.FindByRFID(ctx, tag)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to look up tag")
	}
	if len(spools) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no spool found for tag")
	}
	view := s.view(&spools[0])
	return &view, nil
}

// Create registers a spool from the manual form.
func (s *SpoolService) Create(ctx context.Context, req dto.SpoolRequest, userID *int64) (*models.Spool, error) {
	if err := s.validate(ctx, 0, req); err != nil {
		return nil, err
	}
	spool := &models.Spool{}
	applyRequest(spool, req)
	if req.RemainingWeight != nil {
		spool.RemainingWeight = *req.RemainingWeight
	} else {
		spool.RemainingWeight = req.Weight
	}
	if spool.Code == nil {
		code := uuid.NewString()
		spool.Code = &code
	}

	if err := s.repo.Create(ctx, spool); err != nil {
		return nil, s.writeError(err, "failed to create spool")
	}
	s.audit.Record(ctx, models.AuditActionNewFilamentStart, spool.ID, spool, nil, userID)
	s.cache.Invalidate(ctx, cacheKeySpools)
	s.logger.Info("spool created", zap.Int64("spool_id", spool.ID), zap.String("name", models.DisplayName(spool)))
	return spool, nil
}

// Update replaces the editable fields of a spool. Omitted code and tag
// fields keep their stored values; an empty string clears a tag.
func (s *SpoolService) Update(ctx context.Context, id int64, req dto.SpoolRequest, userID *int64) (*models.Spool, error) {
	if err := s.validate(ctx, id, req); err != nil {
		return nil, err
	}
	prior, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *prior
	applyRequest(&updated, req)
	if req.RemainingWeight != nil {
		updated.RemainingWeight = *req.RemainingWeight
	}
	if req.Code == nil {
		updated.Code = prior.Code
	}
	if req.RFID1 == nil {
		updated.RFID1 = prior.RFID1
	}
	if req.RFID2 == nil {
		updated.RFID2 = prior.RFID2
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "spool not found")
		}
		return nil, s.writeError(err, "failed to update spool")
	}
	s.audit.Record(ctx, models.AuditActionUpdateFilament, updated.ID, updated, prior, userID)
	s.cache.Invalidate(ctx, cacheKeySpools)
	return &updated, nil
}

// Delete removes a spool permanently. Its audit history is kept.
func (s *SpoolService) Delete(ctx context.Context, id int64, userID *int64) error {
	prior, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "spool not found")
		}
		return appErrors.Persistence(err, "failed to delete spool")
	}
	s.audit.Record(ctx, models.AuditActionDeleteFilament, id, nil, prior, userID)
	s.cache.Invalidate(ctx, cacheKeySpools)
	s.logger.Info("spool deleted", zap.Int64("spool_id", id))
	return nil
}

// RecordUsage applies a manual usage observation. When neither weight is
// supplied the spool is returned untouched and nothing is audited.
func (s *SpoolService) RecordUsage(ctx context.Context, id int64, req dto.UsageRequest, userID *int64) (*dto.SpoolView, error) {
	prior, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := ReconcileUsage(prior.RemainingWeight, req.UsedWeight, req.RemainingWeight)
	if err != nil {
		return nil, err
	}
	if req.UsedWeight == nil && req.RemainingWeight == nil {
		view := s.view(prior)
		return &view, nil
	}

	if err := s.repo.UpdateRemainingWeight(ctx, id, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "spool not found")
		}
		return nil, appErrors.Persistence(err, "failed to record usage")
	}
	updated := *prior
	updated.RemainingWeight = next
	s.audit.Record(ctx, models.AuditActionWeightFilament, id, updated, prior, userID)
	s.cache.Invalidate(ctx, cacheKeySpools)
	view := s.view(&updated)
	return &view, nil
}

func (s *SpoolService) load(ctx context.Context, id int64) (*models.Spool, error) {
	spool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "spool not found")
		}
		return nil, appErrors.Persistence(err, "failed to load spool")
	}
	return spool, nil
}

// validate checks req for the spool with the given id; id is 0 on create.
func (s *SpoolService) validate(ctx context.Context, id int64, req dto.SpoolRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid spool payload")
	}
	rfid1, rfid2 := blankToNil(req.RFID1), blankToNil(req.RFID2)
	if rfid1 != nil && rfid2 != nil && *rfid1 == *rfid2 {
		return appErrors.Validation("rfid1 and rfid2 must differ")
	}
	for _, tag := range []*string{rfid1, rfid2} {
		if tag == nil {
			continue
		}
		if err := s.ensureTagFree(ctx, id, *tag); err != nil {
			return err
		}
	}
	if req.ManufacturerID != nil && s.manufacturers != nil {
		exists, err := s.manufacturers.Exists(ctx, *req.ManufacturerID)
		if err != nil {
			return appErrors.Persistence(err, "failed to validate manufacturer")
		}
		if !exists {
			return appErrors.Validation("unknown manufacturer")
		}
	}
	return nil
}

// ensureTagFree rejects a tag held by any other spool in either slot. The
// spool_tags key repeats the check inside the write.
func (s *SpoolService) ensureTagFree(ctx context.Context, id int64, tag string) error {
	holders, err := s.repo.FindByRFID(ctx, tag)
	if err != nil {
		return appErrors.Persistence(err, "failed to look up tag")
	}
	for _, h := range holders {
		if h.ID != id {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("rfid tag %q already assigned to spool %d", tag, h.ID))
		}
	}
	return nil
}

func (s *SpoolService) writeError(err error, message string) error {
	if errors.Is(err, repository.ErrDuplicateTag) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "rfid tag or code already assigned to another spool")
	}
	return appErrors.Persistence(err, message)
}

func (s *SpoolService) view(spool *models.Spool) dto.SpoolView {
	v := dto.SpoolView{Spool: *spool, DisplayName: models.DisplayName(spool)}
	if s.types == nil {
		return v
	}
	if t, ok := s.types.Lookup(spool.SpoolType); ok {
		v.FilamentWeight = FilamentWeight(spool, t)
		v.RemainingPercent = RemainingPercent(spool, t)
	}
	return v
}

func applyRequest(spool *models.Spool, req dto.SpoolRequest) {
	weight := req.Weight
	name := strings.TrimSpace(req.Name)
	spool.Material = req.Material
	spool.ManufacturerID = req.ManufacturerID
	spool.SpoolType = req.SpoolType
	spool.Name = &name
	spool.Color = blankToNil(req.Color)
	spool.ColorHex = blankToNil(req.ColorHex)
	spool.ColorPantone = blankToNil(req.ColorPantone)
	spool.Diameter = req.Diameter
	spool.Weight = &weight
	spool.Status = nil
	if req.Status != "" {
		status := req.Status
		spool.Status = &status
	}
	spool.OpenedAt = req.OpenedAt
	spool.BoughtAt = req.BoughtAt
	spool.EmptyAt = req.EmptyAt
	spool.Link = blankToNil(req.Link)
	spool.Code = blankToNil(req.Code)
	spool.RFID1 = blankToNil(req.RFID1)
	spool.RFID2 = blankToNil(req.RFID2)
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func spoolListKey(f models.SpoolFilter) string {
	var material, status string
	if f.Material != nil {
		material = string(*f.Material)
	}
	if f.Status != nil {
		status = string(*f.Status)
	}
	return cacheKey(cacheKeySpools, "list", material, status, strings.ToLower(f.Search), f.Page, f.PageSize)
}
