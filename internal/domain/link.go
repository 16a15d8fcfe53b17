package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProviderLink binds one connected provider instance (an account, a
// calendar, an ICS feed URL) to the adapter that serves it. Each ICS
// subscription is its own link.
type ProviderLink struct {
	ID       uuid.UUID `db:"id"`
	Provider string    `db:"provider"` // adapter name, discriminator for external keys
	Name     string    `db:"name"`
	// Endpoint is provider-specific: a calendar ID for API providers,
	// a feed URL for ICS subscriptions.
	Endpoint string `db:"endpoint"`
	// CredentialRef names where credentials live (an env var); the link
	// itself never stores secrets.
	CredentialRef string `db:"credential_ref"`
	Enabled       bool   `db:"enabled"`
	// Primary marks the link that receives newly created local records.
	// At most one writable link should be primary.
	Primary  bool   `db:"is_primary"`
	ColorHex string `db:"color_hex"`
	// LastSyncAt is the pull watermark: everything up to here has been
	// observed. Advanced only after a fully successful pass.
	LastSyncAt *time.Time `db:"last_sync_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// Since returns the watermark to pull from, zero time for a first pass.
func (l *ProviderLink) Since() time.Time {
	if l.LastSyncAt == nil {
		return time.Time{}
	}
	return *l.LastSyncAt
}
