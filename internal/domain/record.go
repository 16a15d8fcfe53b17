package domain

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus tracks where a record stands relative to its linked provider.
type SyncStatus string

const (
	StatusPending   SyncStatus = "pending"   // local change not yet pushed
	StatusSynced    SyncStatus = "synced"    // in agreement with the linked provider
	StatusDeleted   SyncStatus = "deleted"   // tombstoned, deletion not yet propagated
	StatusLocalOnly SyncStatus = "localOnly" // user opted out of sync for this record
)

// Source identifies where a record originated.
const (
	SourceLocal = "local"
)

type ItemKind string

const (
	KindTask  ItemKind = "task"
	KindEvent ItemKind = "event"
)

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ExternalKey is a provider-specific identifier pair that lets the engine
// find a record on a remote system again. The zero value means "not linked".
type ExternalKey struct {
	Provider   string `db:"ext_provider" json:"provider"`
	ItemID     string `db:"ext_item_id" json:"item_id"`
	CalendarID string `db:"ext_calendar_id" json:"calendar_id"`
}

func (k ExternalKey) IsZero() bool {
	return k.Provider == "" && k.ItemID == ""
}

// Record is the unit of synchronization: a task or an event kept in the
// local store and reconciled against at most one external provider.
type Record struct {
	ID   uuid.UUID `db:"id"`
	Kind ItemKind  `db:"kind"`

	Title               string     `db:"title"`
	StartAt             time.Time  `db:"start_at"`
	EndAt               *time.Time `db:"end_at"`
	AllDay              bool       `db:"all_day"`
	Notes               *string    `db:"notes"`
	Completed           bool       `db:"completed"`
	Category            string     `db:"category"`
	Location            *string    `db:"location"`
	Priority            Priority   `db:"priority"`
	ReminderLeadMinutes *int       `db:"reminder_lead_minutes"`
	// RecurrenceRule is an opaque payload (raw RRULE text or serialized
	// rule); the engine never interprets it.
	RecurrenceRule []byte `db:"recurrence_rule"`

	ExternalKey

	SyncStatus         SyncStatus `db:"sync_status"`
	Source             string     `db:"source"`
	LastModifiedLocal  time.Time  `db:"last_modified_local"`
	LastModifiedRemote *time.Time `db:"last_modified_remote"`
	Deleted            bool       `db:"deleted"`
	SyncError          *string    `db:"sync_error"`
	CreatedAt          time.Time  `db:"created_at"`
}

// NewLocalRecord creates a record originating on this device, ready to be
// pushed on the next pass.
func NewLocalRecord(kind ItemKind, title string, startAt time.Time) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:                uuid.New(),
		Kind:              kind,
		Title:             title,
		StartAt:           startAt,
		Category:          "other",
		Priority:          PriorityNone,
		SyncStatus:        StatusPending,
		Source:            SourceLocal,
		LastModifiedLocal: now,
		CreatedAt:         now,
	}
}

// MarkPending records a local mutation. LastModifiedLocal strictly
// increases even when the clock has not advanced, since it is the
// tie-breaker for conflict resolution.
func (r *Record) MarkPending(now time.Time) {
	r.SyncStatus = StatusPending
	r.SyncError = nil
	r.touchLocal(now)
}

// MarkSynced links the record to a provider and confirms agreement.
// Only the remote stamp moves: bumping the local stamp here would make a
// freshly pushed record look locally edited.
func (r *Record) MarkSynced(key ExternalKey, now time.Time) {
	r.ExternalKey = key
	r.SyncStatus = StatusSynced
	r.SyncError = nil
	t := now
	r.LastModifiedRemote = &t
}

// MarkDeletedLocally tombstones the record. It stays in the store until
// every linked provider has confirmed the deletion.
func (r *Record) MarkDeletedLocally(now time.Time) {
	r.Deleted = true
	r.SyncStatus = StatusDeleted
	r.touchLocal(now)
}

// MarkLocalOnly opts the record out of synchronization.
func (r *Record) MarkLocalOnly(now time.Time) {
	r.SyncStatus = StatusLocalOnly
	r.touchLocal(now)
}

// ApplyRemote overwrites content fields from a remote version and records
// agreement as of modifiedAt. Sync bookkeeping other than the remote
// stamp is untouched; callers decide status transitions.
func (r *Record) ApplyRemote(remote *Record, modifiedAt time.Time) {
	r.Title = remote.Title
	r.StartAt = remote.StartAt
	r.EndAt = remote.EndAt
	r.AllDay = remote.AllDay
	r.Notes = remote.Notes
	r.Location = remote.Location
	r.RecurrenceRule = remote.RecurrenceRule
	r.SyncStatus = StatusSynced
	r.SyncError = nil
	t := modifiedAt
	r.LastModifiedRemote = &t
}

// ClearExternalKey unlinks the record from its provider.
func (r *Record) ClearExternalKey() {
	r.ExternalKey = ExternalKey{}
}

func (r *Record) touchLocal(now time.Time) {
	if !now.After(r.LastModifiedLocal) {
		now = r.LastModifiedLocal.Add(time.Nanosecond)
	}
	r.LastModifiedLocal = now
}
