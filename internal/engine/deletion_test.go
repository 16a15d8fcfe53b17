package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"calsync/internal/domain"
	"calsync/internal/engine/mocks"
)

type DeletionTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	records   *mocks.MockRecordStore
	txManager *mocks.MockTransactionManager
	canceler  *mocks.MockNotificationCanceler
	notifier  *mocks.MockNotifier

	coordinator *DeletionCoordinator
	now         time.Time
}

func (s *DeletionTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.records = mocks.NewMockRecordStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.canceler = mocks.NewMockNotificationCanceler(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.coordinator = NewDeletionCoordinator(s.records, s.txManager, s.canceler, s.notifier, logger)
	s.coordinator.now = func() time.Time { return s.now }
}

func (s *DeletionTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDeletionTestSuite(t *testing.T) {
	suite.Run(t, new(DeletionTestSuite))
}

func (s *DeletionTestSuite) expectTx(ctx context.Context) {
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *DeletionTestSuite) TestDelete_LinkedRecordIsTombstoned() {
	ctx := context.Background()
	rec := domain.NewLocalRecord(domain.KindEvent, "dentist", s.now.Add(24*time.Hour))
	rec.ExternalKey = domain.ExternalKey{Provider: "google", ItemID: "evt-1", CalendarID: "primary"}
	rec.SyncStatus = domain.StatusSynced

	s.records.EXPECT().GetByID(ctx, rec.ID).Return(rec, nil)
	s.canceler.EXPECT().CancelNotification(rec.ID)

	s.expectTx(ctx)
	s.records.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, r *domain.Record) error {
			s.True(r.Deleted)
			s.Equal(domain.StatusDeleted, r.SyncStatus)
			s.False(r.ExternalKey.IsZero()) // key kept so the deletion can propagate
			return nil
		},
	)

	s.notifier.EXPECT().Notify(ctx).Times(1)

	s.NoError(s.coordinator.Delete(ctx, rec.ID))
}

func (s *DeletionTestSuite) TestDelete_UnlinkedRecordIsPurged() {
	ctx := context.Background()
	rec := domain.NewLocalRecord(domain.KindTask, "groceries", s.now)

	s.records.EXPECT().GetByID(ctx, rec.ID).Return(rec, nil)
	s.canceler.EXPECT().CancelNotification(rec.ID)

	// Never pushed anywhere: nothing to propagate, no tombstone.
	s.expectTx(ctx)
	s.records.EXPECT().Purge(ctx, rec.ID).Return(nil)

	s.notifier.EXPECT().Notify(ctx).Times(1)

	s.NoError(s.coordinator.Delete(ctx, rec.ID))
}

func (s *DeletionTestSuite) TestDelete_LocalOnlyRecordIsPurged() {
	ctx := context.Background()
	rec := domain.NewLocalRecord(domain.KindEvent, "private", s.now)
	rec.MarkLocalOnly(s.now)

	s.records.EXPECT().GetByID(ctx, rec.ID).Return(rec, nil)
	s.canceler.EXPECT().CancelNotification(rec.ID)

	s.expectTx(ctx)
	s.records.EXPECT().Purge(ctx, rec.ID).Return(nil)

	s.notifier.EXPECT().Notify(ctx).Times(1)

	s.NoError(s.coordinator.Delete(ctx, rec.ID))
}

func (s *DeletionTestSuite) TestDelete_StoreFailureEmitsNoSignal() {
	ctx := context.Background()
	rec := domain.NewLocalRecord(domain.KindEvent, "dentist", s.now)
	rec.ExternalKey = domain.ExternalKey{Provider: "google", ItemID: "evt-1", CalendarID: "primary"}

	s.records.EXPECT().GetByID(ctx, rec.ID).Return(rec, nil)
	s.canceler.EXPECT().CancelNotification(rec.ID)

	s.expectTx(ctx)
	s.records.EXPECT().Update(ctx, gomock.Any()).Return(errors.New("disk full"))

	// No Notify: the transaction never committed.

	err := s.coordinator.Delete(ctx, rec.ID)

	s.Error(err)
	s.Contains(err.Error(), "persist deletion")
}

func (s *DeletionTestSuite) TestDelete_UnknownRecord() {
	ctx := context.Background()
	rec := domain.NewLocalRecord(domain.KindEvent, "gone", s.now)

	s.records.EXPECT().GetByID(ctx, rec.ID).Return(nil, domain.ErrRecordNotFound)

	err := s.coordinator.Delete(ctx, rec.ID)

	s.ErrorIs(err, domain.ErrRecordNotFound)
}
