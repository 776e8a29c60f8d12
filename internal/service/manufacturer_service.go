package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/internal/dto"
	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/repository"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

type manufacturerRepository interface {
	List(ctx context.Context) ([]models.Manufacturer, error)
	Create(ctx context.Context, m *models.Manufacturer) error
}

// ManufacturerService manages filament makers.
type ManufacturerService struct {
	repo      manufacturerRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewManufacturerService constructs the manufacturer service.
func NewManufacturerService(repo manufacturerRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ManufacturerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManufacturerService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every manufacturer by name.
func (s *ManufacturerService) List(ctx context.Context) ([]models.Manufacturer, error) {
	key := cacheKey(cacheKeyManufacturers, "all")
	var manufacturers []models.Manufacturer
	if s.cache.Get(ctx, key, &manufacturers) {
		return manufacturers, nil
	}
	manufacturers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to list manufacturers")
	}
	s.cache.Set(ctx, key, manufacturers)
	return manufacturers, nil
}

// Create registers a manufacturer.
func (s *ManufacturerService) Create(ctx context.Context, req dto.CreateManufacturerRequest) (*models.Manufacturer, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manufacturer payload")
	}
	m := &models.Manufacturer{Name: req.Name, Link: blankToNil(req.Link)}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "manufacturer already exists")
		}
		return nil, appErrors.Persistence(err, "failed to create manufacturer")
	}
	s.cache.Invalidate(ctx, cacheKeyManufacturers)
	return m, nil
}
