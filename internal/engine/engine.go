package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"calsync/internal/domain"
)

// Engine reconciles the local record store with every enabled provider
// link. One pass per link: pull remote changes, apply the conflict
// policy, push pending local changes, then advance the watermark.
// Passes are idempotent and safe to resume after interruption.
type Engine struct {
	providers map[string]Provider
	records   RecordStore
	links     LinkStore
	txManager TransactionManager
	notifier  Notifier
	logger    *slog.Logger

	now func() time.Time
}

func New(
	providers []Provider,
	records RecordStore,
	links LinkStore,
	txManager TransactionManager,
	notifier Notifier,
	logger *slog.Logger,
) *Engine {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Engine{
		providers: byName,
		records:   records,
		links:     links,
		txManager: txManager,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// SyncAll runs one pass for every enabled link. Passes for distinct
// links are independent and run concurrently; a failed pass does not
// stop the others.
func (e *Engine) SyncAll(ctx context.Context) ([]domain.PassStats, error) {
	links, err := e.links.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list enabled links: %w", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		all      []domain.PassStats
		firstErr error
	)

	for _, link := range links {
		wg.Add(1)
		go func(link domain.ProviderLink) {
			defer wg.Done()
			stats, err := e.SyncLink(ctx, link)
			mu.Lock()
			defer mu.Unlock()
			if stats != nil {
				all = append(all, *stats)
			}
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("sync %s: %w", link.Name, err)
			}
		}(link)
	}
	wg.Wait()

	return all, firstErr
}

// SyncLink runs one full pass for a single provider link: pull phase,
// then push phase, then watermark commit. The returned stats are valid
// even when err is non-nil and describe how far the pass got.
func (e *Engine) SyncLink(ctx context.Context, link domain.ProviderLink) (*domain.PassStats, error) {
	provider, ok := e.providers[link.Provider]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for provider %q", link.Provider)
	}

	passStart := e.now().UTC()
	stats := &domain.PassStats{Provider: link.Provider, LinkID: link.ID}
	logger := e.logger.With("provider", link.Provider, "link", link.Name)

	logger.Info("starting sync pass", "since", link.Since(), "writable", provider.CanWrite())

	defer func() {
		stats.Duration = e.now().UTC().Sub(passStart)
	}()

	if err := e.pullPhase(ctx, provider, link, passStart, stats, logger); err != nil {
		e.notifyIfChanged(ctx, stats)
		return stats, err
	}

	if provider.CanWrite() {
		if err := e.pushPhase(ctx, provider, link, passStart, stats, logger); err != nil {
			e.notifyIfChanged(ctx, stats)
			return stats, err
		}
	}

	// Watermark commit: only after both phases completed without a
	// pass-level failure. A partially failed pass re-delivers its
	// changes next time; the handlers above tolerate repeats.
	if err := e.links.UpdateLastSync(ctx, link.ID, passStart); err != nil {
		e.notifyIfChanged(ctx, stats)
		return stats, fmt.Errorf("advance watermark: %w", err)
	}

	e.notifyIfChanged(ctx, stats)

	logger.Info("sync pass completed",
		"pulled", stats.Pulled,
		"created", stats.Created,
		"updated", stats.Updated,
		"deleted_local", stats.DeletedLocal,
		"skipped", stats.Skipped,
		"conflicts", stats.Conflicts,
		"pushed", stats.Pushed,
		"pushed_deletes", stats.PushedDelete,
		"retryable", stats.Retryable,
		"rejected", stats.Rejected,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (e *Engine) pullPhase(ctx context.Context, provider Provider, link domain.ProviderLink, passStart time.Time, stats *domain.PassStats, logger *slog.Logger) error {
	changes, err := provider.ListChanges(ctx, link, link.Since())
	if err != nil {
		return fmt.Errorf("list remote changes: %w", err)
	}
	stats.Pulled = len(changes)

	for i := range changes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.applyRemoteChange(ctx, provider.Name(), changes[i], passStart, stats); err != nil {
			// Store failures are per-record warnings: the record keeps
			// its previous state and the rest of the pull continues.
			logger.Warn("apply remote change failed", "error", err)
		}
	}
	return nil
}

func (e *Engine) applyRemoteChange(ctx context.Context, provider string, ch domain.RemoteChange, passStart time.Time, stats *domain.PassStats) error {
	existing, err := e.records.GetByExternalKey(ctx, ch.Key)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return e.recordErr(stats, uuid.Nil, "lookup", err)
	}

	switch ch.Type {
	case domain.ChangeDelete:
		if existing == nil {
			// Deletion of something we never had: nothing to do.
			return nil
		}
		return e.applyRemoteDelete(ctx, existing, passStart, stats)

	case domain.ChangeUpsert:
		remoteMod := passStart
		if ch.ModifiedAt != nil {
			remoteMod = *ch.ModifiedAt
		}
		if existing == nil {
			return e.createFromRemote(ctx, provider, ch, remoteMod, passStart, stats)
		}
		return e.updateFromRemote(ctx, existing, ch, remoteMod, stats)

	default:
		return fmt.Errorf("unknown change type %q", ch.Type)
	}
}

func (e *Engine) applyRemoteDelete(ctx context.Context, existing *domain.Record, passStart time.Time, stats *domain.PassStats) error {
	if existing.SyncStatus == domain.StatusPending {
		// The record was edited locally after the provider deleted it.
		// Local wins: drop the dead external key so the push phase
		// re-creates it remotely.
		existing.ClearExternalKey()
		err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
			return e.records.Update(ctx, existing)
		})
		if err != nil {
			return e.recordErr(stats, existing.ID, "resolve delete conflict", err)
		}
		stats.Conflicts++
		return nil
	}

	// No local edit in flight: the remote deletion stands. The record
	// was only linked to this provider, so once the key is gone there is
	// nothing left to propagate and the tombstone can be purged at once.
	err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return e.records.Purge(ctx, existing.ID)
	})
	if err != nil {
		return e.recordErr(stats, existing.ID, "apply remote delete", err)
	}
	stats.DeletedLocal++
	return nil
}

func (e *Engine) createFromRemote(ctx context.Context, provider string, ch domain.RemoteChange, remoteMod, passStart time.Time, stats *domain.PassStats) error {
	rec := *ch.Record
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Kind == "" {
		rec.Kind = domain.KindEvent
	}
	if rec.Category == "" {
		rec.Category = "other"
	}
	if rec.Priority == "" {
		rec.Priority = domain.PriorityNone
	}
	rec.Source = provider
	rec.LastModifiedLocal = passStart
	rec.CreatedAt = passStart
	rec.MarkSynced(ch.Key, remoteMod)

	err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return e.records.Insert(ctx, &rec)
	})
	if err != nil {
		return e.recordErr(stats, rec.ID, "create from remote", err)
	}
	stats.Created++
	return nil
}

func (e *Engine) updateFromRemote(ctx context.Context, existing *domain.Record, ch domain.RemoteChange, remoteMod time.Time, stats *domain.PassStats) error {
	// Last-writer-wins. A pending edit or a tombstone newer than the
	// remote version survives and is pushed back in the push phase.
	locallyDirty := existing.SyncStatus == domain.StatusPending || existing.SyncStatus == domain.StatusDeleted
	if locallyDirty && existing.LastModifiedLocal.After(remoteMod) {
		stats.Conflicts++
		return nil
	}

	// Unchanged since the last pull: nothing to write.
	if !locallyDirty && existing.LastModifiedRemote != nil && !remoteMod.After(*existing.LastModifiedRemote) {
		stats.Skipped++
		return nil
	}

	existing.ApplyRemote(ch.Record, remoteMod)
	existing.ExternalKey = ch.Key
	existing.Deleted = false // a remote update resurrects an older local tombstone

	err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return e.records.Update(ctx, existing)
	})
	if err != nil {
		return e.recordErr(stats, existing.ID, "update from remote", err)
	}
	stats.Updated++
	return nil
}

func (e *Engine) pushPhase(ctx context.Context, provider Provider, link domain.ProviderLink, passStart time.Time, stats *domain.PassStats, logger *slog.Logger) error {
	pending, err := e.records.ListPendingForProvider(ctx, provider.Name(), link.Primary)
	if err != nil {
		return fmt.Errorf("list pending records: %w", err)
	}

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.pushRecord(ctx, provider, link, &pending[i], passStart, stats); err != nil {
			if domain.IsUnsupported(err) {
				// Push on a read-only adapter is a defect, not a
				// condition to retry around.
				return err
			}
			logger.Warn("push failed", "record", pending[i].ID, "error", err)
		}
	}
	return nil
}

func (e *Engine) pushRecord(ctx context.Context, provider Provider, link domain.ProviderLink, rec *domain.Record, passStart time.Time, stats *domain.PassStats) error {
	if rec.SyncStatus == domain.StatusDeleted {
		return e.pushDelete(ctx, provider, link, rec, stats)
	}

	// A record flagged with a permanent rejection is not retried until
	// the user edits it again (MarkPending clears the flag).
	if rec.SyncError != nil {
		return nil
	}

	if rec.ExternalKey.IsZero() {
		key, err := provider.PushCreate(ctx, link, rec)
		if err != nil {
			return e.pushErr(ctx, rec, "push create", err, stats)
		}
		err = e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
			rec.MarkSynced(key, passStart)
			return e.records.Update(ctx, rec)
		})
		if err != nil {
			return e.recordErr(stats, rec.ID, "persist pushed create", err)
		}
		stats.Pushed++
		return nil
	}

	if err := provider.PushUpdate(ctx, link, rec, rec.ExternalKey); err != nil {
		return e.pushErr(ctx, rec, "push update", err, stats)
	}
	err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		rec.MarkSynced(rec.ExternalKey, passStart)
		return e.records.Update(ctx, rec)
	})
	if err != nil {
		return e.recordErr(stats, rec.ID, "persist pushed update", err)
	}
	stats.Pushed++
	return nil
}

func (e *Engine) pushDelete(ctx context.Context, provider Provider, link domain.ProviderLink, rec *domain.Record, stats *domain.PassStats) error {
	if rec.ExternalKey.IsZero() {
		// Never linked anywhere: nothing to propagate, purge directly.
		err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
			return e.records.Purge(ctx, rec.ID)
		})
		if err != nil {
			return e.recordErr(stats, rec.ID, "purge unlinked tombstone", err)
		}
		stats.Purged++
		return nil
	}

	if err := provider.PushDelete(ctx, link, rec.ExternalKey); err != nil {
		if domain.IsUnsupported(err) {
			return err
		}
		if !domain.IsRejected(err) {
			stats.Retryable++
			return e.recordErr(stats, rec.ID, "push delete", err)
		}
		// Rejected here means the record is already gone remotely,
		// which is the outcome we wanted.
	}

	err := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return e.records.Purge(ctx, rec.ID)
	})
	if err != nil {
		return e.recordErr(stats, rec.ID, "purge after push delete", err)
	}
	stats.PushedDelete++
	stats.Purged++
	return nil
}

// pushErr classifies a failed push and updates stats and, for permanent
// rejections, the record's error flag.
func (e *Engine) pushErr(ctx context.Context, rec *domain.Record, op string, err error, stats *domain.PassStats) error {
	if domain.IsUnsupported(err) {
		return err
	}
	if domain.IsRejected(err) {
		msg := err.Error()
		rec.SyncError = &msg
		flagErr := e.txManager.WithTransaction(ctx, func(ctx context.Context) error {
			return e.records.Update(ctx, rec)
		})
		if flagErr != nil {
			return e.recordErr(stats, rec.ID, op+" (flag rejection)", flagErr)
		}
		stats.Rejected++
		return e.recordErr(stats, rec.ID, op, err)
	}
	// Transient: the record stays pending and retries next pass.
	stats.Retryable++
	return e.recordErr(stats, rec.ID, op, err)
}

func (e *Engine) recordErr(stats *domain.PassStats, id uuid.UUID, op string, err error) error {
	re := domain.RecordError{RecordID: id, Op: op, Err: err}
	stats.Errors = append(stats.Errors, re)
	return re
}

func (e *Engine) notifyIfChanged(ctx context.Context, stats *domain.PassStats) {
	if e.notifier != nil && stats.Changed() {
		e.notifier.Notify(ctx)
	}
}
