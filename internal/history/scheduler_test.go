package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ *MemoryStore }

func (failingStore) Prune(context.Context, time.Time) (int64, error) {
	return 0, errors.New("disk full")
}

func TestScheduler_PruneNow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, sampleRun("stale.csv", now.Add(-31*24*time.Hour))))
	fresh := sampleRun("fresh.csv", now.Add(-time.Hour))
	require.NoError(t, store.Record(ctx, fresh))

	s, err := NewScheduler(store, "@daily", 30*24*time.Hour)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	assert.Equal(t, int64(1), s.PruneNow(ctx))

	_, err = store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestScheduler_PruneErrorIsLogged(t *testing.T) {
	s, err := NewScheduler(failingStore{NewMemoryStore(1)}, "@hourly", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.PruneNow(context.Background()))
}

func TestNewScheduler_Invalid(t *testing.T) {
	_, err := NewScheduler(NewMemoryStore(1), "not a schedule", time.Hour)
	assert.Error(t, err)

	_, err = NewScheduler(NewMemoryStore(1), "@daily", 0)
	assert.Error(t, err)
}

func TestScheduler_StartStopsWithContext(t *testing.T) {
	store := NewMemoryStore(5)
	require.NoError(t, store.Record(context.Background(), Run{ID: uuid.New(), CreatedAt: time.Unix(0, 0)}))

	s, err := NewScheduler(store, "@every 1h", time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		runs, _ := store.Recent(context.Background(), 0)
		return len(runs) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
