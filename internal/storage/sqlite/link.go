package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"calsync/internal/domain"
)

type LinkStore struct {
	db *sqlx.DB
}

func NewLinkStore(db *sqlx.DB) *LinkStore {
	return &LinkStore{db: db}
}

const linkColumns = `
	id, provider, name, endpoint, credential_ref, enabled, is_primary,
	color_hex, last_sync_at, created_at`

func (s *LinkStore) List(ctx context.Context, enabledOnly bool) ([]domain.ProviderLink, error) {
	query := `SELECT ` + linkColumns + ` FROM provider_links`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY created_at`

	var links []domain.ProviderLink
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &links, query)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (s *LinkStore) Get(ctx context.Context, id uuid.UUID) (*domain.ProviderLink, error) {
	query := `SELECT ` + linkColumns + ` FROM provider_links WHERE id = ?`

	var link domain.ProviderLink
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &link, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Save upserts a link keyed by (provider, endpoint) so config-declared
// links can be re-seeded at every startup without duplicating rows or
// losing the stored watermark.
func (s *LinkStore) Save(ctx context.Context, link *domain.ProviderLink) error {
	query := `
		INSERT INTO provider_links (` + linkColumns + `)
		VALUES (
			:id, :provider, :name, :endpoint, :credential_ref, :enabled, :is_primary,
			:color_hex, :last_sync_at, :created_at
		)
		ON CONFLICT (provider, endpoint) DO UPDATE SET
			name = excluded.name,
			credential_ref = excluded.credential_ref,
			enabled = excluded.enabled,
			is_primary = excluded.is_primary,
			color_hex = excluded.color_hex`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, link)
	return err
}

func (s *LinkStore) UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE provider_links SET last_sync_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}
