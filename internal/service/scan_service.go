package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/repository"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

// ScanBranch names the rule that resolved a scan event.
type ScanBranch string

const (
	// BranchMatched: a spool already carries the tag.
	BranchMatched ScanBranch = "matched"
	// BranchPartiallyTagged: the tag was paired to a spool with a free rfid2 slot.
	BranchPartiallyTagged ScanBranch = "partially_tagged"
	// BranchUnknown: a new spool was registered for the tag.
	BranchUnknown ScanBranch = "unknown"
)

type scanRepository interface {
	FindByRFID(ctx context.Context, tag string) ([]models.Spool, error)
	FindMissingSecondRFID(ctx context.Context) ([]models.Spool, error)
	Create(ctx context.Context, spool *models.Spool) error
	UpdateRemainingWeight(ctx context.Context, id int64, weight float64) error
	ClaimSecondRFID(ctx context.Context, id int64, tag string, weight float64) error
}

type auditRecorder interface {
	Record(ctx context.Context, action models.AuditAction, rowID int64, newState, oldState interface{}, userID *int64)
}

// ScanResult describes the outcome of one scan event.
type ScanResult struct {
	Branch ScanBranch
	Action models.AuditAction
	Spool  *models.Spool
}

// ScanService maps reader events onto spool rows.
type ScanService struct {
	repo    scanRepository
	audit   auditRecorder
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewScanService constructs the resolution engine.
func NewScanService(repo scanRepository, audit auditRecorder, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ScanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{repo: repo, audit: audit, cache: cache, metrics: metrics, logger: logger}
}

// Resolve applies an observed gross weight for tag. Branches are tried in
// order: a spool holding the tag, then the oldest spool with a free second
// slot, then a new spool. A uniqueness conflict from a concurrent scan
// causes exactly one fresh resolution.
func (s *ScanService) Resolve(ctx context.Context, tag string, weight float64, userID *int64) (*ScanResult, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, appErrors.Validation("missing uid parameter")
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return nil, appErrors.Validation("weight must be a non-negative number")
	}

	start := time.Now()
	result, err := s.resolve(ctx, tag, weight, userID, false)
	if isTagConflict(err) {
		s.logger.Info("scan raced with another writer, resolving again", zap.String("tag", tag), zap.Error(err))
		result, err = s.resolve(ctx, tag, weight, userID, true)
	}
	if err != nil {
		if isTagConflict(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "tag is being registered concurrently")
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, cacheKeySpools)
	s.metrics.RecordScan(result.Branch, time.Since(start))
	s.logger.Info("scan resolved",
		zap.String("tag", tag),
		zap.String("branch", string(result.Branch)),
		zap.Int64("spool_id", result.Spool.ID),
		zap.Float64("remaining_weight", result.Spool.RemainingWeight),
	)
	return result, nil
}

// resolve runs one pass of the branches. On a retry the matched spool may
// already hold this exact reading from the writer that won the race.
func (s *ScanService) resolve(ctx context.Context, tag string, weight float64, userID *int64, retry bool) (*ScanResult, error) {
	matches, err := s.repo.FindByRFID(ctx, tag)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to look up tag")
	}
	if len(matches) > 0 {
		if len(matches) > 1 {
			s.logger.Warn("tag held by several spools, using lowest id", zap.String("tag", tag), zap.Int("count", len(matches)))
		}
		if retry && matches[0].RemainingWeight == weight {
			spool := matches[0]
			return &ScanResult{Branch: BranchMatched, Action: models.AuditActionWeightFilament, Spool: &spool}, nil
		}
		return s.applyWeight(ctx, matches[0], weight, userID)
	}

	candidates, err := s.repo.FindMissingSecondRFID(ctx)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to look up partially tagged spools")
	}
	if len(candidates) > 0 {
		return s.claimSecondSlot(ctx, candidates[0], tag, weight, userID)
	}

	return s.register(ctx, tag, weight, userID)
}

func (s *ScanService) applyWeight(ctx context.Context, prior models.Spool, weight float64, userID *int64) (*ScanResult, error) {
	next, err := ReconcileUsage(prior.RemainingWeight, nil, &weight)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRemainingWeight(ctx, prior.ID, next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "spool not found")
		}
		return nil, appErrors.Persistence(err, "failed to update remaining weight")
	}
	updated := prior
	updated.RemainingWeight = next
	s.audit.Record(ctx, models.AuditActionWeightFilament, updated.ID, updated, prior, userID)
	return &ScanResult{Branch: BranchMatched, Action: models.AuditActionWeightFilament, Spool: &updated}, nil
}

func (s *ScanService) claimSecondSlot(ctx context.Context, prior models.Spool, tag string, weight float64, userID *int64) (*ScanResult, error) {
	if err := s.repo.ClaimSecondRFID(ctx, prior.ID, tag, weight); err != nil {
		return nil, appErrors.Persistence(err, "failed to pair tag with spool")
	}
	updated := prior
	updated.RFID2 = &tag
	updated.RemainingWeight = weight
	s.audit.Record(ctx, models.AuditActionNewFilamentEnd, updated.ID, updated, prior, userID)
	return &ScanResult{Branch: BranchPartiallyTagged, Action: models.AuditActionNewFilamentEnd, Spool: &updated}, nil
}

func (s *ScanService) register(ctx context.Context, tag string, weight float64, userID *int64) (*ScanResult, error) {
	spool := &models.Spool{
		Material:        models.MaterialOther,
		RemainingWeight: weight,
		RFID1:           &tag,
	}
	if err := s.repo.Create(ctx, spool); err != nil {
		return nil, appErrors.Persistence(err, "failed to register spool")
	}
	s.audit.Record(ctx, models.AuditActionNewFilamentStart, spool.ID, spool, nil, userID)
	return &ScanResult{Branch: BranchUnknown, Action: models.AuditActionNewFilamentStart, Spool: spool}, nil
}

func isTagConflict(err error) bool {
	return errors.Is(err, repository.ErrDuplicateTag) || errors.Is(err, repository.ErrSlotTaken)
}
