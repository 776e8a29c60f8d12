package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesInOrderAndDrainsOnStop(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.ID)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 16})

	q.Start(context.Background())
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, q.Enqueue(Job{ID: id, Type: "audit"}))
	}
	q.Stop()

	assert.Equal(t, []string{"a", "b", "c", "d"}, seen)
}

func TestQueueHandlerErrorDoesNotStopWorker(t *testing.T) {
	var count int
	var mu sync.Mutex
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		mu.Lock()
		count++
		mu.Unlock()
		return errors.New("boom")
	}, QueueConfig{})

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "1"}))
	require.NoError(t, q.Enqueue(Job{ID: "2"}))
	q.Stop()

	assert.Equal(t, 2, count)
}

func TestQueueRejectsWhenNotRunning(t *testing.T) {
	q := NewQueue("audit", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "early"}))

	q.Start(context.Background())
	q.Stop()
	assert.Error(t, q.Enqueue(Job{ID: "late"}))
	q.Stop()
}

func TestQueueFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("audit", func(context.Context, Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	// first job may be picked up by the worker, so fill until rejection
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = q.Enqueue(Job{ID: "x"})
	}
	assert.ErrorIs(t, err, ErrQueueFull)

	close(block)
	q.Stop()
}
