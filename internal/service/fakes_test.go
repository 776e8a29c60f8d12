package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/spool-tracker/internal/models"
	"github.com/noah-isme/spool-tracker/internal/repository"
)

// fakeSpoolStore is an in-memory stand-in for the spool repository. Like the
// spool_tags key, it rejects a tag already held in either slot of any spool.
type fakeSpoolStore struct {
	mu     sync.Mutex
	spools map[int64]models.Spool
	nextID int64
	clock  time.Time

	findErr   error
	createErr error
	claimErr  []error
	updates   int
	creates   int
}

func newFakeSpoolStore(seed ...models.Spool) *fakeSpoolStore {
	f := &fakeSpoolStore{spools: map[int64]models.Spool{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, s := range seed {
		if s.CreatedAt.IsZero() {
			f.clock = f.clock.Add(time.Minute)
			s.CreatedAt = f.clock
		}
		f.spools[s.ID] = s
		if s.ID > f.nextID {
			f.nextID = s.ID
		}
	}
	return f
}

func (f *fakeSpoolStore) sorted(keep func(models.Spool) bool) []models.Spool {
	var out []models.Spool
	for _, s := range f.spools {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeSpoolStore) get(id int64) models.Spool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spools[id]
}

func (f *fakeSpoolStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.spools)
}

func (f *fakeSpoolStore) tagTaken(tag string, except int64) bool {
	for id, s := range f.spools {
		if id != except && s.HasTag(tag) {
			return true
		}
	}
	return false
}

func (f *fakeSpoolStore) FindByID(ctx context.Context, id int64) (*models.Spool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spools[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeSpoolStore) FindByCode(ctx context.Context, code string) ([]models.Spool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(s models.Spool) bool { return s.Code != nil && *s.Code == code }), nil
}

func (f *fakeSpoolStore) FindByRFID(ctx context.Context, tag string) ([]models.Spool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.sorted(func(s models.Spool) bool { return s.HasTag(tag) }), nil
}

func (f *fakeSpoolStore) FindMissingSecondRFID(ctx context.Context) ([]models.Spool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(s models.Spool) bool { return s.RFID1 != nil && s.RFID2 == nil }), nil
}

func (f *fakeSpoolStore) List(ctx context.Context, filter models.SpoolFilter) ([]models.Spool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(func(s models.Spool) bool {
		return filter.Material == nil || s.Material == *filter.Material
	})
	return all, len(all), nil
}

func (f *fakeSpoolStore) All(ctx context.Context) ([]models.Spool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(models.Spool) bool { return true }), nil
}

func (f *fakeSpoolStore) Create(ctx context.Context, spool *models.Spool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, tag := range []*string{spool.RFID1, spool.RFID2} {
		if tag != nil && f.tagTaken(*tag, 0) {
			return fmt.Errorf("create spool: %w", repository.ErrDuplicateTag)
		}
	}
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	spool.ID = f.nextID
	spool.CreatedAt = f.clock
	f.spools[spool.ID] = *spool
	return nil
}

func (f *fakeSpoolStore) Update(ctx context.Context, spool *models.Spool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.spools[spool.ID]; !ok {
		return sql.ErrNoRows
	}
	for _, tag := range []*string{spool.RFID1, spool.RFID2} {
		if tag != nil && f.tagTaken(*tag, spool.ID) {
			return fmt.Errorf("update spool: %w", repository.ErrDuplicateTag)
		}
	}
	f.spools[spool.ID] = *spool
	f.updates++
	return nil
}

func (f *fakeSpoolStore) UpdateRemainingWeight(ctx context.Context, id int64, weight float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spools[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.RemainingWeight = weight
	f.spools[id] = s
	f.updates++
	return nil
}

func (f *fakeSpoolStore) ClaimSecondRFID(ctx context.Context, id int64, tag string, weight float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.claimErr) > 0 {
		err := f.claimErr[0]
		f.claimErr = f.claimErr[1:]
		return err
	}
	s, ok := f.spools[id]
	if !ok || s.RFID2 != nil {
		return fmt.Errorf("claim second rfid: %w", repository.ErrSlotTaken)
	}
	if f.tagTaken(tag, 0) {
		return fmt.Errorf("claim second rfid: %w", repository.ErrDuplicateTag)
	}
	s.RFID2 = &tag
	s.RemainingWeight = weight
	f.spools[id] = s
	f.updates++
	return nil
}

func (f *fakeSpoolStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.spools[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.spools, id)
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
	limit   int
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry.ID = int64(len(f.entries) + 1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	out := make([]models.AuditEntry, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeAuditRepo) ListByRow(ctx context.Context, rowID int64, limit int) ([]models.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	var out []models.AuditEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].RowID == rowID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) actions() []models.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AuditAction, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
