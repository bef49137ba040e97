package usage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Retention periodically deletes usage records past their retention
// window, driven by a cron schedule.
type Retention struct {
	cron      *cron.Cron
	store     *Store
	retention time.Duration
}

// NewRetention builds the sweep for the given store. schedule is a
// standard five-field cron expression; retention is how long records are
// kept.
func NewRetention(store *Store, schedule string, retention time.Duration) (*Retention, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("usage retention must be positive, got %s", retention)
	}

	r := &Retention{
		cron:      cron.New(),
		store:     store,
		retention: retention,
	}

	if _, err := r.cron.AddFunc(schedule, r.sweep); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins scheduling sweeps in a background goroutine.
func (r *Retention) Start() {
	r.cron.Start()
	slog.Info("usage retention sweep scheduled", "retention", r.retention)
}

// Stop cancels future sweeps; a sweep in progress finishes.
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

// sweep deletes everything older than the retention window.
func (r *Retention) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-r.retention)
	deleted, err := r.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		slog.Error("usage retention sweep failed", "error", err)
		return
	}
	slog.Info("usage retention sweep completed", "deleted", deleted, "cutoff", cutoff)
}
