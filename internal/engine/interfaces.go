package engine

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"calsync/internal/domain"
)

// RecordStore is the transactional local store for syncable records.
// All mutations run inside the transaction carried by ctx when one is
// present.
type RecordStore interface {
	Insert(ctx context.Context, rec *domain.Record) error
	Update(ctx context.Context, rec *domain.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	// GetByExternalKey returns domain.ErrRecordNotFound when no record
	// is linked to the key.
	GetByExternalKey(ctx context.Context, key domain.ExternalKey) (*domain.Record, error)
	// ListPendingForProvider returns records with pending or deleted
	// status linked to the named provider; when includeUnlinked is set
	// it also returns local-origin pending records with no external key
	// (candidates for a first push to the primary link).
	ListPendingForProvider(ctx context.Context, provider string, includeUnlinked bool) ([]domain.Record, error)
	Purge(ctx context.Context, id uuid.UUID) error
}

type LinkStore interface {
	List(ctx context.Context, enabledOnly bool) ([]domain.ProviderLink, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ProviderLink, error)
	Save(ctx context.Context, link *domain.ProviderLink) error
	UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Provider adapts one external calendar system. Read-only adapters
// report CanWrite() == false and are never asked to push.
type Provider interface {
	Name() string
	CanWrite() bool
	// ListChanges returns creations, updates, and deletions observed
	// since the watermark, in no particular order.
	ListChanges(ctx context.Context, link domain.ProviderLink, since time.Time) ([]domain.RemoteChange, error)
	PushCreate(ctx context.Context, link domain.ProviderLink, rec *domain.Record) (domain.ExternalKey, error)
	PushUpdate(ctx context.Context, link domain.ProviderLink, rec *domain.Record, key domain.ExternalKey) error
	PushDelete(ctx context.Context, link domain.ProviderLink, key domain.ExternalKey) error
}

// Notifier broadcasts "data changed, re-read" to whoever listens.
// Emitted only after the triggering transaction has committed.
type Notifier interface {
	Notify(ctx context.Context)
}

// NotificationCanceler cancels a scheduled local notification for a
// record. Fire-and-forget: cancelling a notification that was never
// scheduled is not an error.
type NotificationCanceler interface {
	CancelNotification(recordID uuid.UUID)
}
