package mscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"calsync/internal/domain"
)

const ProviderName = "microsoft"

// Sync window: Graph has no reliable "updated since" listing without
// delta tokens, so each pass lists a bounded window and deletions are
// derived from items that disappear between passes.
const (
	windowPast   = 30 * 24 * time.Hour
	windowFuture = 365 * 24 * time.Hour
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Provider adapts the Microsoft Graph calendar API. The link's Endpoint
// is the calendar ID; CredentialRef names the env var with the bearer
// token.
type Provider struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger

	// seen tracks, per link, the remote IDs observed on the previous
	// pass, so the next pass can emit deletions for items that vanished.
	mu   sync.Mutex
	seen map[uuid.UUID]map[string]struct{}
}

func New(cfg Config, logger *slog.Logger) *Provider {
	return &Provider{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("provider", ProviderName),
		seen:           make(map[uuid.UUID]map[string]struct{}),
	}
}

func (p *Provider) Name() string   { return ProviderName }
func (p *Provider) CanWrite() bool { return true }

func (p *Provider) ListChanges(ctx context.Context, link domain.ProviderLink, since time.Time) ([]domain.RemoteChange, error) {
	now := time.Now().UTC()
	start := now.Add(-windowPast)
	end := now.Add(windowFuture)

	var changes []domain.RemoteChange
	current := make(map[string]struct{})

	next := fmt.Sprintf("%s/me/calendars/%s/calendarView?startDateTime=%s&endDateTime=%s&$top=100",
		p.baseURL,
		url.PathEscape(link.Endpoint),
		url.QueryEscape(start.Format(time.RFC3339)),
		url.QueryEscape(end.Format(time.RFC3339)),
	)

	for next != "" {
		var resp listResponse
		if err := p.doWithRetry(ctx, link, http.MethodGet, next, nil, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Value {
			current[item.ID] = struct{}{}
			modified := parseModified(item.LastModifiedDateTime)
			// Items untouched since the watermark still converge (the
			// engine skips stale upserts), but there is no point
			// shipping them.
			if modified != nil && !since.IsZero() && !modified.After(since) {
				continue
			}
			changes = append(changes, domain.RemoteChange{
				Type: domain.ChangeUpsert,
				Key: domain.ExternalKey{
					Provider:   ProviderName,
					ItemID:     item.ID,
					CalendarID: link.Endpoint,
				},
				Record:     toRecord(item),
				ModifiedAt: modified,
			})
		}

		next = resp.NextLink
	}

	// Anything seen last pass but absent now was deleted remotely.
	p.mu.Lock()
	previous := p.seen[link.ID]
	p.seen[link.ID] = current
	p.mu.Unlock()

	for id := range previous {
		if _, ok := current[id]; !ok {
			changes = append(changes, domain.RemoteChange{
				Type: domain.ChangeDelete,
				Key: domain.ExternalKey{
					Provider:   ProviderName,
					ItemID:     id,
					CalendarID: link.Endpoint,
				},
			})
		}
	}

	p.logger.Debug("listed remote changes", "calendar", link.Endpoint, "count", len(changes))
	return changes, nil
}

func (p *Provider) PushCreate(ctx context.Context, link domain.ProviderLink, rec *domain.Record) (domain.ExternalKey, error) {
	body := fromRecord(rec)
	var created eventResource
	err := p.doWithRetry(ctx, link, http.MethodPost,
		fmt.Sprintf("%s/me/calendars/%s/events", p.baseURL, url.PathEscape(link.Endpoint)),
		&body, &created)
	if err != nil {
		return domain.ExternalKey{}, err
	}
	return domain.ExternalKey{
		Provider:   ProviderName,
		ItemID:     created.ID,
		CalendarID: link.Endpoint,
	}, nil
}

func (p *Provider) PushUpdate(ctx context.Context, link domain.ProviderLink, rec *domain.Record, key domain.ExternalKey) error {
	body := fromRecord(rec)
	return p.doWithRetry(ctx, link, http.MethodPatch,
		fmt.Sprintf("%s/me/events/%s", p.baseURL, url.PathEscape(key.ItemID)),
		&body, nil)
}

func (p *Provider) PushDelete(ctx context.Context, link domain.ProviderLink, key domain.ExternalKey) error {
	return p.doWithRetry(ctx, link, http.MethodDelete,
		fmt.Sprintf("%s/me/events/%s", p.baseURL, url.PathEscape(key.ItemID)),
		nil, nil)
}

func (p *Provider) doWithRetry(ctx context.Context, link domain.ProviderLink, method, u string, in, out any) error {
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err = p.doRequest(ctx, link, method, u, in, out)
		if err == nil || domain.IsRejected(err) {
			return err
		}

		if attempt == p.maxAttempts {
			break
		}

		backoff := p.calculateBackoff(attempt)
		p.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return domain.NewProviderError(domain.KindUnavailable, ProviderName, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", p.maxAttempts, err)
}

func (p *Provider) doRequest(ctx context.Context, link domain.ProviderLink, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return domain.NewProviderError(domain.KindRejected, ProviderName, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return domain.NewProviderError(domain.KindRejected, ProviderName, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if link.CredentialRef != "" {
		if token := os.Getenv(link.CredentialRef); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.NewProviderError(domain.KindUnavailable, ProviderName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return domain.NewProviderError(domain.KindUnavailable, ProviderName, fmt.Errorf("status %d", resp.StatusCode))
	default:
		return domain.NewProviderError(domain.KindRejected, ProviderName, fmt.Errorf("status %d", resp.StatusCode))
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.NewProviderError(domain.KindUnavailable, ProviderName, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

func (p *Provider) calculateBackoff(attempt int) time.Duration {
	backoff := p.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > p.maxBackoff {
			return p.maxBackoff
		}
	}
	return backoff
}
