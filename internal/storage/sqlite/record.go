package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"calsync/internal/domain"
)

type RecordStore struct {
	db *sqlx.DB
}

func NewRecordStore(db *sqlx.DB) *RecordStore {
	return &RecordStore{db: db}
}

const recordColumns = `
	id, kind, title, start_at, end_at, all_day, notes, completed,
	category, location, priority, reminder_lead_minutes, recurrence_rule,
	ext_provider, ext_item_id, ext_calendar_id,
	sync_status, source, last_modified_local, last_modified_remote,
	deleted, sync_error, created_at`

func (s *RecordStore) Insert(ctx context.Context, rec *domain.Record) error {
	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (
			:id, :kind, :title, :start_at, :end_at, :all_day, :notes, :completed,
			:category, :location, :priority, :reminder_lead_minutes, :recurrence_rule,
			:ext_provider, :ext_item_id, :ext_calendar_id,
			:sync_status, :source, :last_modified_local, :last_modified_remote,
			:deleted, :sync_error, :created_at
		)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, rec)
	return err
}

func (s *RecordStore) Update(ctx context.Context, rec *domain.Record) error {
	query := `
		UPDATE records SET
			kind = :kind,
			title = :title,
			start_at = :start_at,
			end_at = :end_at,
			all_day = :all_day,
			notes = :notes,
			completed = :completed,
			category = :category,
			location = :location,
			priority = :priority,
			reminder_lead_minutes = :reminder_lead_minutes,
			recurrence_rule = :recurrence_rule,
			ext_provider = :ext_provider,
			ext_item_id = :ext_item_id,
			ext_calendar_id = :ext_calendar_id,
			sync_status = :sync_status,
			source = :source,
			last_modified_local = :last_modified_local,
			last_modified_remote = :last_modified_remote,
			deleted = :deleted,
			sync_error = :sync_error
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, rec)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (s *RecordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`

	var rec domain.Record
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RecordStore) GetByExternalKey(ctx context.Context, key domain.ExternalKey) (*domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE ext_provider = ? AND ext_item_id = ? AND ext_calendar_id = ?`

	var rec domain.Record
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &rec, query, key.Provider, key.ItemID, key.CalendarID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListPendingForProvider returns records awaiting a push to the named
// provider: pending or tombstoned records linked to it, unlinked pending
// records that originated on it (a cleared key after a delete/edit
// conflict), and, when includeUnlinked is set, unlinked local-origin
// pending records eligible for a first push.
func (s *RecordStore) ListPendingForProvider(ctx context.Context, provider string, includeUnlinked bool) ([]domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE (ext_provider = ? AND sync_status IN ('pending', 'deleted'))
		   OR (ext_item_id = '' AND sync_status = 'pending' AND deleted = 0
		       AND (source = ? OR (? AND source = 'local')))
		ORDER BY last_modified_local`

	var recs []domain.Record
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &recs, query, provider, provider, includeUnlinked)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByProvider returns the non-tombstoned records linked to the named
// provider (the "show this calendar" read path).
func (s *RecordStore) ListByProvider(ctx context.Context, provider string) ([]domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE ext_provider = ? AND deleted = 0 AND sync_status != 'deleted'
		ORDER BY start_at`

	var recs []domain.Record
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &recs, query, provider)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// ListActive is the user-facing read path: tombstones never appear.
func (s *RecordStore) ListActive(ctx context.Context) ([]domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE deleted = 0 AND sync_status != 'deleted'
		ORDER BY start_at`

	var recs []domain.Record
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &recs, query)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *RecordStore) Purge(ctx context.Context, id uuid.UUID) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}
