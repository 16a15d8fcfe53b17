package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeUpsert ChangeType = "upsert"
	ChangeDelete ChangeType = "delete"
)

// RemoteChange is one creation, update, or deletion observed on a
// provider since the watermark. Ordering is not guaranteed.
type RemoteChange struct {
	Type ChangeType
	Key  ExternalKey
	// Record carries the remote content for upserts; nil for deletions.
	Record *Record
	// ModifiedAt is the remote's own modification time when the provider
	// supplies one; nil means "unknown, use pull time".
	ModifiedAt *time.Time
}

// RecordError ties a per-record failure to the record it affected.
type RecordError struct {
	RecordID uuid.UUID
	Op       string
	Err      error
}

func (e RecordError) Error() string {
	return e.Op + " " + e.RecordID.String() + ": " + e.Err.Error()
}

func (e RecordError) Unwrap() error { return e.Err }

// PassStats holds statistics about one sync pass for one provider link.
type PassStats struct {
	Provider     string
	LinkID       uuid.UUID
	Pulled       int // remote changes observed
	Created      int // local records created from remote
	Updated      int // local records overwritten from remote
	DeletedLocal int // remote deletions applied locally
	Skipped      int // remote changes older than local state
	Conflicts    int // local-wins resolutions
	Pushed       int // creates + updates pushed
	PushedDelete int // deletions propagated
	Purged       int // tombstones physically removed
	Retryable    int // records left pending for the next pass
	Rejected     int // records flagged with a permanent error
	Errors       []RecordError
	Duration     time.Duration
}

// Changed reports whether the pass mutated the local store at all.
func (s *PassStats) Changed() bool {
	return s.Created+s.Updated+s.DeletedLocal+s.Conflicts+s.Pushed+s.PushedDelete+s.Purged > 0
}
