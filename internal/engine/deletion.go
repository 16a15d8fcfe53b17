package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"calsync/internal/domain"
)

// DeletionCoordinator performs a user-initiated deletion as one logical
// unit: cancel the record's scheduled notification, tombstone it, persist
// transactionally, and signal the change exactly once after commit.
type DeletionCoordinator struct {
	records   RecordStore
	txManager TransactionManager
	canceler  NotificationCanceler
	notifier  Notifier
	logger    *slog.Logger

	now func() time.Time
}

func NewDeletionCoordinator(
	records RecordStore,
	txManager TransactionManager,
	canceler NotificationCanceler,
	notifier Notifier,
	logger *slog.Logger,
) *DeletionCoordinator {
	return &DeletionCoordinator{
		records:   records,
		txManager: txManager,
		canceler:  canceler,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Delete soft-deletes the record with the given id. Records that were
// never linked to a provider (localOnly, or pending without an external
// key) have nothing to propagate and are purged immediately; everything
// else is tombstoned for the next sync pass.
//
// The change signal fires only after the transaction commits: on a
// persistence failure the caller sees the error and no signal is
// emitted.
func (d *DeletionCoordinator) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := d.records.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load record: %w", err)
	}

	// Fire-and-forget: cancelling a notification that does not exist
	// silently succeeds.
	d.canceler.CancelNotification(rec.ID)

	err = d.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if rec.SyncStatus == domain.StatusLocalOnly || rec.ExternalKey.IsZero() {
			return d.records.Purge(ctx, rec.ID)
		}
		rec.MarkDeletedLocally(d.now().UTC())
		return d.records.Update(ctx, rec)
	})
	if err != nil {
		return fmt.Errorf("persist deletion: %w", err)
	}

	d.logger.Info("record deleted", "record", rec.ID, "title", rec.Title, "tombstoned", !rec.ExternalKey.IsZero())

	if d.notifier != nil {
		d.notifier.Notify(ctx)
	}
	return nil
}
