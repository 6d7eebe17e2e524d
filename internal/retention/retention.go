// Package retention runs scheduled maintenance over the database:
// expired cache entries, stale usage counters and, when a window is
// configured, old analysis records.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/glowlab/dermalyze/internal/metrics"
)

// CacheCleaner removes expired cache entries.
type CacheCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// UsageCleaner removes usage counters older than a cutoff date.
type UsageCleaner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AnalysisCleaner removes analysis records older than a cutoff.
type AnalysisCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config controls the worker schedule and retention windows.
type Config struct {
	// Schedule is a cron expression or a descriptor like "@hourly".
	Schedule string
	// UsageWindow is how long daily usage counters are kept.
	UsageWindow time.Duration
	// AnalysisWindow prunes analyses older than this. Zero keeps
	// records forever; per-user depth pruning happens at insert time.
	AnalysisWindow time.Duration
	// RunTimeout bounds a single maintenance pass.
	RunTimeout time.Duration
}

const (
	defaultUsageWindow = 90 * 24 * time.Hour
	defaultRunTimeout  = 2 * time.Minute
)

// Worker runs retention passes on a cron schedule.
type Worker struct {
	cfg      Config
	cache    CacheCleaner
	usage    UsageCleaner
	analyses AnalysisCleaner
	logger   *slog.Logger
	cron     *cron.Cron
}

func NewWorker(cfg Config, cache CacheCleaner, usage UsageCleaner, analyses AnalysisCleaner, logger *slog.Logger) *Worker {
	if cfg.UsageWindow <= 0 {
		cfg.UsageWindow = defaultUsageWindow
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}

	return &Worker{
		cfg:      cfg,
		cache:    cache,
		usage:    usage,
		analyses: analyses,
		logger:   logger,
	}
}

// Start registers the maintenance job and starts the scheduler.
func (w *Worker) Start() error {
	w.cron = cron.New()

	if _, err := w.cron.AddFunc(w.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.RunTimeout)
		defer cancel()
		w.Run(ctx)
	}); err != nil {
		return fmt.Errorf("register retention job %q: %w", w.cfg.Schedule, err)
	}

	w.cron.Start()
	w.logger.Info("retention worker started", "schedule", w.cfg.Schedule)

	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (w *Worker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("retention worker stopped")
}

// Run executes one maintenance pass. Failures in one step never block
// the others.
func (w *Worker) Run(ctx context.Context) {
	started := time.Now()
	var deleted int64

	if w.cache != nil {
		n, err := w.cache.CleanupExpired(ctx)
		if err != nil {
			w.logger.Error("cache cleanup failed", "error", err)
		} else {
			deleted += n
		}
	}

	if w.usage != nil {
		cutoff := time.Now().UTC().Add(-w.cfg.UsageWindow)
		n, err := w.usage.DeleteBefore(ctx, cutoff)
		if err != nil {
			w.logger.Error("usage cleanup failed", "error", err)
		} else {
			deleted += n
		}
	}

	if w.analyses != nil && w.cfg.AnalysisWindow > 0 {
		cutoff := time.Now().UTC().Add(-w.cfg.AnalysisWindow)
		n, err := w.analyses.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			w.logger.Error("analysis cleanup failed", "error", err)
		} else {
			deleted += n
		}
	}

	metrics.RecordRetentionDeleted(deleted)
	w.logger.Info("retention pass finished",
		"deleted", deleted,
		"duration", time.Since(started),
	)
}
