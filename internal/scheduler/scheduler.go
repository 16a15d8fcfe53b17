package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"calsync/internal/domain"
)

// Syncer runs sync passes for all enabled provider links.
type Syncer interface {
	SyncAll(ctx context.Context) ([]domain.PassStats, error)
}

type Config struct {
	Interval time.Duration
	// CronSpec, when non-empty, schedules additional passes on a cron
	// expression alongside the interval ticker.
	CronSpec    string
	PassTimeout time.Duration
	// Debounce coalesces bursts of local-change signals into one pass.
	Debounce time.Duration
}

// Scheduler triggers sync passes periodically, on a cron schedule, and
// after local edits (debounced). Any trigger firing while a pass runs
// coalesces into at most one follow-up pass.
type Scheduler struct {
	syncer  Syncer
	cfg     Config
	logger  *slog.Logger
	trigger chan struct{}
}

func NewScheduler(syncer Syncer, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:  syncer,
		cfg:     cfg,
		logger:  logger,
		trigger: make(chan struct{}, 1),
	}
}

// Start runs the scheduling loop until ctx is cancelled. changes may be
// nil; when provided (the in-process change notifier subscription),
// local edits schedule a debounced pass so pending records reach their
// providers without waiting for the next tick.
func (s *Scheduler) Start(ctx context.Context, changes <-chan struct{}) error {
	s.logger.Info("scheduler started", "interval", s.cfg.Interval, "cron", s.cfg.CronSpec)

	var c *cron.Cron
	if s.cfg.CronSpec != "" {
		c = cron.New()
		if _, err := c.AddFunc(s.cfg.CronSpec, s.RequestSync); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
	}

	if changes != nil {
		go s.debounceChanges(ctx, changes)
	}

	s.runSync(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		case <-s.trigger:
			s.runSync(ctx)
		}
	}
}

// RequestSync schedules a pass as soon as the loop is free. Safe to call
// from any goroutine; repeated requests coalesce.
func (s *Scheduler) RequestSync() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// RunOnce runs a single pass immediately (pull-to-refresh semantics).
func (s *Scheduler) RunOnce(ctx context.Context) ([]domain.PassStats, error) {
	syncCtx, cancel := context.WithTimeout(ctx, s.cfg.PassTimeout)
	defer cancel()
	return s.syncer.SyncAll(syncCtx)
}

func (s *Scheduler) debounceChanges(ctx context.Context, changes <-chan struct{}) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if timer == nil {
				timer = time.NewTimer(s.cfg.Debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.cfg.Debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			s.RequestSync()
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.cfg.PassTimeout)
	defer cancel()

	if _, err := s.syncer.SyncAll(syncCtx); err != nil {
		s.logger.Error("sync failed", "error", err)
	}
}
