package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/spool-tracker/internal/models"
)

func TestAuditRecordSnapshots(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, nil, AuditConfig{}, nil)

	spool := models.Spool{ID: 3, Material: models.MaterialPLA, RemainingWeight: 1000}
	svc.Record(context.Background(), models.AuditActionNewFilamentStart, 3, spool, nil, ptr(int64(9)))
	svc.Record(context.Background(), models.AuditActionDeleteFilament, 3, nil, spool, nil)

	require.Len(t, repo.entries, 2)
	created := repo.entries[0]
	assert.JSONEq(t, `{}`, string(created.OldValues))
	assert.Contains(t, string(created.NewValues), `"remaining_weight":1000`)
	assert.Equal(t, int64(9), *created.UserID)

	deleted := repo.entries[1]
	assert.JSONEq(t, `{}`, string(deleted.NewValues))
	assert.Contains(t, string(deleted.OldValues), `"id":3`)
	assert.Nil(t, deleted.UserID)
}

func TestAuditRecordSwallowsPersistenceFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &fakeAuditRepo{err: errors.New("connection refused")}
	metrics := NewMetricsService()
	svc := NewAuditService(repo, metrics, AuditConfig{}, zap.New(core))

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), models.AuditActionWeightFilament, 1, models.Spool{ID: 1}, models.Spool{ID: 1}, nil)
	})
	require.Equal(t, 1, logs.FilterMessage("audit write failed").Len())
	assert.Equal(t, uint64(1), metrics.Snapshot().AuditFailures)
}

func TestAuditAsyncWritesInOrderAndDrainsOnStop(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, nil, AuditConfig{Async: true, Workers: 1, BufferSize: 16}, nil)
	svc.Start(context.Background())

	svc.Record(context.Background(), models.AuditActionNewFilamentStart, 1, models.Spool{ID: 1}, nil, nil)
	svc.Record(context.Background(), models.AuditActionWeightFilament, 1, models.Spool{ID: 1}, models.Spool{ID: 1}, nil)
	svc.Record(context.Background(), models.AuditActionDeleteFilament, 1, nil, models.Spool{ID: 1}, nil)
	svc.Stop()

	assert.Equal(t, []models.AuditAction{
		models.AuditActionNewFilamentStart,
		models.AuditActionWeightFilament,
		models.AuditActionDeleteFilament,
	}, repo.actions())
}

func TestAuditAsyncFallsBackInlineWhenNotStarted(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, nil, AuditConfig{Async: true}, nil)

	svc.Record(context.Background(), models.AuditActionUpdateFilament, 2, models.Spool{ID: 2}, models.Spool{ID: 2}, nil)
	assert.Equal(t, []models.AuditAction{models.AuditActionUpdateFilament}, repo.actions())
}

func TestAuditListClampsLimit(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, nil, AuditConfig{}, nil)
	for i := int64(1); i <= 3; i++ {
		svc.Record(context.Background(), models.AuditActionWeightFilament, i, models.Spool{ID: i}, models.Spool{ID: i}, nil)
	}

	entries, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.limit)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[0].RowID)

	_, err = svc.List(context.Background(), 10_000)
	require.NoError(t, err)
	assert.Equal(t, maxAuditListLimit, repo.limit)

	history, err := svc.ListForSpool(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 5, repo.limit)
}
