package googlecal

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
	"time"

	"calsync/internal/domain"
)

const ProviderName = "google"

// Config holds Google Calendar adapter configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Provider adapts the Google Calendar v3 REST API. The link's Endpoint
// is the calendar ID; the link's CredentialRef names the environment
// variable holding a bearer token.
type Provider struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
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
	}
}

func (p *Provider) Name() string   { return ProviderName }
func (p *Provider) CanWrite() bool { return true }

// ListChanges pulls events updated since the watermark, including
// cancellations, paging through the full result set.
func (p *Provider) ListChanges(ctx context.Context, link domain.ProviderLink, since time.Time) ([]domain.RemoteChange, error) {
	var changes []domain.RemoteChange
	pageToken := ""

	for {
		resp, err := p.listPage(ctx, link, since, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			key := domain.ExternalKey{
				Provider:   ProviderName,
				ItemID:     item.ID,
				CalendarID: link.Endpoint,
			}
			if item.Status == "cancelled" {
				changes = append(changes, domain.RemoteChange{
					Type: domain.ChangeDelete,
					Key:  key,
				})
				continue
			}
			changes = append(changes, domain.RemoteChange{
				Type:       domain.ChangeUpsert,
				Key:        key,
				Record:     toRecord(item),
				ModifiedAt: parseUpdated(item.Updated),
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	p.logger.Debug("listed remote changes", "calendar", link.Endpoint, "count", len(changes))
	return changes, nil
}

func (p *Provider) PushCreate(ctx context.Context, link domain.ProviderLink, rec *domain.Record) (domain.ExternalKey, error) {
	body := fromRecord(rec)
	var created eventResource
	err := p.doWithRetry(ctx, link, http.MethodPost,
		fmt.Sprintf("%s/calendars/%s/events", p.baseURL, url.PathEscape(link.Endpoint)),
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
		fmt.Sprintf("%s/calendars/%s/events/%s", p.baseURL, url.PathEscape(key.CalendarID), url.PathEscape(key.ItemID)),
		&body, nil)
}

func (p *Provider) PushDelete(ctx context.Context, link domain.ProviderLink, key domain.ExternalKey) error {
	return p.doWithRetry(ctx, link, http.MethodDelete,
		fmt.Sprintf("%s/calendars/%s/events/%s", p.baseURL, url.PathEscape(key.CalendarID), url.PathEscape(key.ItemID)),
		nil, nil)
}

func (p *Provider) listPage(ctx context.Context, link domain.ProviderLink, since time.Time, pageToken string) (*listResponse, error) {
	q := url.Values{}
	q.Set("maxResults", "250")
	q.Set("showDeleted", "true")
	if !since.IsZero() {
		q.Set("updatedMin", since.UTC().Format(time.RFC3339))
	}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	u := fmt.Sprintf("%s/calendars/%s/events?%s", p.baseURL, url.PathEscape(link.Endpoint), q.Encode())

	var resp listResponse
	if err := p.doWithRetry(ctx, link, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doWithRetry runs one API call with bounded exponential backoff.
// Only transient failures are retried; rejections surface immediately.
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
	if token := p.token(link); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.NewProviderError(domain.KindUnavailable, ProviderName, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return err
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.NewProviderError(domain.KindUnavailable, ProviderName, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

func (p *Provider) token(link domain.ProviderLink) string {
	if link.CredentialRef == "" {
		return ""
	}
	return os.Getenv(link.CredentialRef)
}

// classifyStatus maps HTTP failures onto the reconciliation taxonomy:
// auth/rate-limit/server trouble is transient, everything that will
// never succeed for this record is a rejection.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized,
		code == http.StatusTooManyRequests,
		code >= 500:
		return domain.NewProviderError(domain.KindUnavailable, ProviderName, fmt.Errorf("status %d", code))
	default:
		// 400, 403, 404, 410: permanent for this record.
		return domain.NewProviderError(domain.KindRejected, ProviderName, fmt.Errorf("status %d", code))
	}
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
