package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// CacheSweepJob keeps the offline cache bounded: expired entries go first,
// then the oldest entries while the store exceeds its capacity.
type CacheSweepJob struct {
	cache  ports.OfflineCache
	cron   *cron.Cron
	logger *slog.Logger
}

// NewCacheSweepJob creates a job sweeping the cache every ten minutes.
func NewCacheSweepJob(cache ports.OfflineCache, logger *slog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache:  cache,
		cron:   cron.New(),
		logger: logger.With("component", "cache_sweep_job"),
	}
}

// Start begins the sweep job.
func (j *CacheSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * *", func() {
		ctx := context.Background()
		removed, sweepErr := j.cache.Sweep(ctx)
		if sweepErr != nil {
			j.logger.ErrorContext(ctx, "Cache sweep failed", "error", sweepErr)
			return
		}
		if removed > 0 {
			j.logger.InfoContext(ctx, "Cache sweep finished", "removed", removed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cache sweep job started (running every ten minutes)")
	return nil
}

// Stop stops the sweep job.
func (j *CacheSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Cache sweep job stopped")
}
