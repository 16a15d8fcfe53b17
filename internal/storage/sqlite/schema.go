package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id                    TEXT PRIMARY KEY,
	kind                  TEXT NOT NULL,
	title                 TEXT NOT NULL,
	start_at              TIMESTAMP NOT NULL,
	end_at                TIMESTAMP,
	all_day               INTEGER NOT NULL DEFAULT 0,
	notes                 TEXT,
	completed             INTEGER NOT NULL DEFAULT 0,
	category              TEXT NOT NULL DEFAULT 'other',
	location              TEXT,
	priority              TEXT NOT NULL DEFAULT 'none',
	reminder_lead_minutes INTEGER,
	recurrence_rule       BLOB,
	ext_provider          TEXT NOT NULL DEFAULT '',
	ext_item_id           TEXT NOT NULL DEFAULT '',
	ext_calendar_id       TEXT NOT NULL DEFAULT '',
	sync_status           TEXT NOT NULL,
	source                TEXT NOT NULL,
	last_modified_local   TIMESTAMP NOT NULL,
	last_modified_remote  TIMESTAMP,
	deleted               INTEGER NOT NULL DEFAULT 0,
	sync_error            TEXT,
	created_at            TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_sync_status ON records (sync_status);
CREATE INDEX IF NOT EXISTS idx_records_deleted ON records (deleted);
CREATE UNIQUE INDEX IF NOT EXISTS idx_records_ext_key
	ON records (ext_provider, ext_item_id, ext_calendar_id)
	WHERE ext_item_id != '';

CREATE TABLE IF NOT EXISTS provider_links (
	id             TEXT PRIMARY KEY,
	provider       TEXT NOT NULL,
	name           TEXT NOT NULL,
	endpoint       TEXT NOT NULL,
	credential_ref TEXT NOT NULL DEFAULT '',
	enabled        INTEGER NOT NULL DEFAULT 1,
	is_primary     INTEGER NOT NULL DEFAULT 0,
	color_hex      TEXT NOT NULL DEFAULT '#C7251D',
	last_sync_at   TIMESTAMP,
	created_at     TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_links_provider_endpoint
	ON provider_links (provider, endpoint);
`

// Open opens (creating if needed) the local store and applies the
// schema. The database is a single file on the user's device; WAL mode
// keeps reads responsive while a sync pass writes.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}
