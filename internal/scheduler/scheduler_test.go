package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsync/internal/domain"
)

type fakeSyncer struct {
	calls atomic.Int32
	err   error
	ran   chan struct{}
}

func newFakeSyncer() *fakeSyncer {
	return &fakeSyncer{ran: make(chan struct{}, 16)}
}

func (f *fakeSyncer) SyncAll(ctx context.Context) ([]domain.PassStats, error) {
	f.calls.Add(1)
	select {
	case f.ran <- struct{}{}:
	default:
	}
	return []domain.PassStats{{Provider: "google"}}, f.err
}

func (f *fakeSyncer) waitForRun(t *testing.T) {
	t.Helper()
	select {
	case <-f.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("no sync pass ran in time")
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() Config {
	return Config{
		Interval:    time.Hour, // ticker out of the way, tests drive triggers
		PassTimeout: time.Second,
		Debounce:    50 * time.Millisecond,
	}
}

func TestStart_RunsInitialPass(t *testing.T) {
	syncer := newFakeSyncer()
	s := NewScheduler(syncer, testConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx, nil) }()

	syncer.waitForRun(t)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.GreaterOrEqual(t, syncer.calls.Load(), int32(1))
}

func TestRequestSync_TriggersPass(t *testing.T) {
	syncer := newFakeSyncer()
	s := NewScheduler(syncer, testConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx, nil)

	syncer.waitForRun(t) // initial pass

	s.RequestSync()
	syncer.waitForRun(t)
}

func TestRequestSync_Coalesces(t *testing.T) {
	syncer := newFakeSyncer()
	s := NewScheduler(syncer, testConfig(), testLogger())

	// Before the loop drains the channel, many requests are one trigger.
	s.RequestSync()
	s.RequestSync()
	s.RequestSync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx, nil)

	syncer.waitForRun(t) // initial pass
	syncer.waitForRun(t) // coalesced trigger

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestChangeSignalsAreDebounced(t *testing.T) {
	syncer := newFakeSyncer()
	s := NewScheduler(syncer, testConfig(), testLogger())

	changes := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx, changes)

	syncer.waitForRun(t) // initial pass

	// A burst of local edits becomes one follow-up pass.
	for i := 0; i < 5; i++ {
		changes <- struct{}{}
	}

	syncer.waitForRun(t)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestRunOnce(t *testing.T) {
	syncer := newFakeSyncer()
	s := NewScheduler(syncer, testConfig(), testLogger())

	stats, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "google", stats[0].Provider)
}

func TestStart_FailedPassKeepsLoopAlive(t *testing.T) {
	syncer := newFakeSyncer()
	syncer.err = errors.New("provider down")
	s := NewScheduler(syncer, testConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx, nil)

	syncer.waitForRun(t) // initial pass fails, loop keeps going

	s.RequestSync()
	syncer.waitForRun(t)
}

func TestStart_BadCronSpec(t *testing.T) {
	cfg := testConfig()
	cfg.CronSpec = "not a cron spec"
	s := NewScheduler(newFakeSyncer(), cfg, testLogger())

	err := s.Start(context.Background(), nil)
	assert.Error(t, err)
}
