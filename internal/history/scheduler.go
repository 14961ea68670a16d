package history

// scheduler.go runs retention pruning in the background.
//
// Pruning is driven by a cron spec (default "@daily") and removes runs
// older than the configured retention. A failed prune is logged and the
// next scheduled run tries again; it never stops the server.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler prunes a Store on a cron schedule.
type Scheduler struct {
	store     Store
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewScheduler validates spec and prepares a scheduler. Call Start to run it.
func NewScheduler(store Store, spec string, retention time.Duration) (*Scheduler, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("history retention must be positive, got %s", retention)
	}

	s := &Scheduler{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, func() { s.PruneNow(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start prunes once immediately, then follows the schedule until ctx is
// cancelled. It blocks, so run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("history pruner started", "retention", s.retention.String())

	s.PruneNow(ctx)
	s.cron.Start()

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	slog.Info("history pruner stopped")
}

// PruneNow deletes runs older than the retention window and returns how
// many were removed.
func (s *Scheduler) PruneNow(ctx context.Context) int64 {
	start := s.now()
	cutoff := start.Add(-s.retention)

	removed, err := s.store.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return 0
	}

	slog.Info("history pruned",
		"runs_removed", removed,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return removed
}
