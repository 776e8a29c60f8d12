package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spool-tracker/internal/models"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
	"github.com/noah-isme/spool-tracker/pkg/jobs"
)

const maxAuditListLimit = 500

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
	ListByRow(ctx context.Context, rowID int64, limit int) ([]models.AuditEntry, error)
}

// AuditConfig tunes the recorder.
type AuditConfig struct {
	Async      bool
	Workers    int
	BufferSize int
	ListLimit  int
}

// AuditService records spool mutations. Recording never fails the caller:
// persistence errors are logged and counted, then dropped.
type AuditService struct {
	repo      auditRepository
	queue     *jobs.Queue
	metrics   *MetricsService
	logger    *zap.Logger
	listLimit int
}

// NewAuditService constructs the recorder. With cfg.Async entries are
// written by a background queue that must be started with Start.
func NewAuditService(repo auditRepository, metrics *MetricsService, cfg AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	s := &AuditService{repo: repo, metrics: metrics, logger: logger, listLimit: cfg.ListLimit}
	if cfg.Async {
		s.queue = jobs.NewQueue("audit", s.handle, jobs.QueueConfig{
			Workers:    cfg.Workers,
			BufferSize: cfg.BufferSize,
			Logger:     logger,
		})
	}
	return s
}

// Start launches the background writer when running async.
func (s *AuditService) Start(ctx context.Context) {
	if s.queue != nil {
		s.queue.Start(ctx)
	}
}

// Stop flushes buffered entries and stops the writer.
func (s *AuditService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// Record appends an entry for a mutation of row rowID. A nil state is stored
// as the empty object.
func (s *AuditService) Record(ctx context.Context, action models.AuditAction, rowID int64, newState, oldState interface{}, userID *int64) {
	if s == nil {
		return
	}
	entry := &models.AuditEntry{
		Action:    action,
		RowID:     rowID,
		OldValues: s.snapshot(action, rowID, oldState),
		NewValues: s.snapshot(action, rowID, newState),
		UserID:    userID,
	}

	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: string(action), Payload: entry})
		if err == nil {
			return
		}
		s.logger.Warn("audit queue rejected entry, writing inline", zap.String("action", string(action)), zap.Int64("row_id", rowID), zap.Error(err))
	}
	s.persist(context.WithoutCancel(ctx), entry)
}

// List returns the newest entries first. limit is capped.
func (s *AuditService) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	entries, err := s.repo.ListRecent(ctx, s.clampLimit(limit))
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to list audit entries")
	}
	return entries, nil
}

// ListForSpool returns the history of one spool, newest first.
func (s *AuditService) ListForSpool(ctx context.Context, spoolID int64, limit int) ([]models.AuditEntry, error) {
	entries, err := s.repo.ListByRow(ctx, spoolID, s.clampLimit(limit))
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to list audit entries")
	}
	return entries, nil
}

func (s *AuditService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.listLimit
	}
	if limit > maxAuditListLimit {
		return maxAuditListLimit
	}
	return limit
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditEntry)
	if !ok {
		return appErrors.Clone(appErrors.ErrInternal, "unexpected audit payload")
	}
	s.persist(ctx, entry)
	return nil
}

func (s *AuditService) persist(ctx context.Context, entry *models.AuditEntry) {
	err := s.repo.Create(ctx, entry)
	s.metrics.RecordAuditWrite(string(entry.Action), err)
	if err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", string(entry.Action)),
			zap.Int64("row_id", entry.RowID),
			zap.Error(err),
		)
	}
}

func (s *AuditService) snapshot(action models.AuditAction, rowID int64, state interface{}) json.RawMessage {
	if state == nil {
		return models.EmptySnapshot
	}
	raw, err := json.Marshal(state)
	if err != nil {
		s.logger.Warn("audit snapshot encode failed", zap.String("action", string(action)), zap.Int64("row_id", rowID), zap.Error(err))
		return models.EmptySnapshot
	}
	if string(raw) == "null" {
		return models.EmptySnapshot
	}
	return raw
}
