package retention

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	deleted int64
	err     error
	calls   int
}

func (s *stubCache) CleanupExpired(ctx context.Context) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

type stubUsage struct {
	deleted int64
	err     error
	cutoff  time.Time
}

func (s *stubUsage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, s.err
}

type stubAnalyses struct {
	deleted int64
	calls   int
}

func (s *stubAnalyses) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.calls++
	return s.deleted, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRun_AllCleaners(t *testing.T) {
	cache := &stubCache{deleted: 4}
	usage := &stubUsage{deleted: 7}
	analyses := &stubAnalyses{deleted: 2}

	w := NewWorker(Config{
		Schedule:       "@hourly",
		UsageWindow:    30 * 24 * time.Hour,
		AnalysisWindow: 365 * 24 * time.Hour,
	}, cache, usage, analyses, testLogger())

	w.Run(context.Background())

	assert.Equal(t, 1, cache.calls)
	assert.Equal(t, 1, analyses.calls)

	// Usage cutoff respects the configured window.
	expected := time.Now().UTC().Add(-30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, usage.cutoff, time.Minute)
}

func TestRun_AnalysisWindowDisabled(t *testing.T) {
	analyses := &stubAnalyses{}
	w := NewWorker(Config{Schedule: "@hourly"}, &stubCache{}, &stubUsage{}, analyses, testLogger())

	w.Run(context.Background())

	assert.Zero(t, analyses.calls)
}

func TestRun_FailuresDoNotBlockOtherSteps(t *testing.T) {
	cache := &stubCache{err: errors.New("connection refused")}
	usage := &stubUsage{deleted: 3}

	w := NewWorker(Config{Schedule: "@hourly"}, cache, usage, nil, testLogger())
	w.Run(context.Background())

	assert.False(t, usage.cutoff.IsZero())
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(Config{Schedule: "@hourly"}, nil, nil, nil, testLogger())

	assert.Equal(t, defaultUsageWindow, w.cfg.UsageWindow)
	assert.Equal(t, defaultRunTimeout, w.cfg.RunTimeout)
}

func TestStart_InvalidSchedule(t *testing.T) {
	w := NewWorker(Config{Schedule: "not a schedule"}, nil, nil, nil, testLogger())

	err := w.Start()
	require.Error(t, err)
}

func TestStartStop(t *testing.T) {
	w := NewWorker(Config{Schedule: "@hourly"}, &stubCache{}, &stubUsage{}, nil, testLogger())

	require.NoError(t, w.Start())
	w.Stop()
}
