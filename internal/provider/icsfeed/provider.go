package icsfeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"calsync/internal/domain"
)

const ProviderName = "ics"

var errReadOnly = errors.New("ics subscriptions are read-only")

type Config struct {
	Timeout time.Duration
	// Horizon bounds recurrence expansion when deciding whether a
	// recurring feed item still has upcoming occurrences.
	Horizon        time.Duration
	MaxOccurrences int
}

// Provider adapts read-only ICS subscription feeds. The link's Endpoint
// is the feed URL. Feeds are full snapshots, so deletions are derived
// from items that disappear between fetches.
type Provider struct {
	httpClient     *http.Client
	horizon        time.Duration
	maxOccurrences int
	logger         *slog.Logger

	mu    sync.Mutex
	cache map[uuid.UUID]*feedState
}

// feedState holds per-link HTTP cache metadata and the UID set of the
// last successful fetch.
type feedState struct {
	etag         string
	lastModified string
	body         []byte
	seen         map[string]struct{}
}

func New(cfg Config, logger *slog.Logger) *Provider {
	return &Provider{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		horizon:        cfg.Horizon,
		maxOccurrences: cfg.MaxOccurrences,
		logger:         logger.With("provider", ProviderName),
		cache:          make(map[uuid.UUID]*feedState),
	}
}

func (p *Provider) Name() string   { return ProviderName }
func (p *Provider) CanWrite() bool { return false }

func (p *Provider) PushCreate(context.Context, domain.ProviderLink, *domain.Record) (domain.ExternalKey, error) {
	return domain.ExternalKey{}, domain.NewProviderError(domain.KindUnsupported, ProviderName, errReadOnly)
}

func (p *Provider) PushUpdate(context.Context, domain.ProviderLink, *domain.Record, domain.ExternalKey) error {
	return domain.NewProviderError(domain.KindUnsupported, ProviderName, errReadOnly)
}

func (p *Provider) PushDelete(context.Context, domain.ProviderLink, domain.ExternalKey) error {
	return domain.NewProviderError(domain.KindUnsupported, ProviderName, errReadOnly)
}

// ListChanges fetches the feed and emits one upsert per relevant VEVENT
// plus deletions for UIDs gone since the previous fetch. ICS feeds carry
// no change log, so the watermark is ignored; stale upserts are cheap
// for the engine to skip.
func (p *Provider) ListChanges(ctx context.Context, link domain.ProviderLink, _ time.Time) ([]domain.RemoteChange, error) {
	state := p.linkState(link.ID)

	body, err := p.fetch(ctx, link, state)
	if err != nil {
		return nil, err
	}

	events, err := parseFeed(body)
	if err != nil {
		return nil, domain.NewProviderError(domain.KindRejected, ProviderName, fmt.Errorf("parse feed: %w", err))
	}

	now := time.Now().UTC()
	var changes []domain.RemoteChange
	current := make(map[string]struct{}, len(events))

	for _, ev := range events {
		if _, dup := current[ev.UID]; dup {
			continue // overrides of recurring instances share the base UID
		}
		if !p.relevant(ev, now) {
			continue
		}
		current[ev.UID] = struct{}{}

		changes = append(changes, domain.RemoteChange{
			Type: domain.ChangeUpsert,
			Key: domain.ExternalKey{
				Provider:   ProviderName,
				ItemID:     ev.UID,
				CalendarID: link.ID.String(),
			},
			Record:     ev.toRecord(),
			ModifiedAt: ev.Modified,
		})
	}

	p.mu.Lock()
	previous := state.seen
	state.seen = current
	p.mu.Unlock()

	for uid := range previous {
		if _, ok := current[uid]; !ok {
			changes = append(changes, domain.RemoteChange{
				Type: domain.ChangeDelete,
				Key: domain.ExternalKey{
					Provider:   ProviderName,
					ItemID:     uid,
					CalendarID: link.ID.String(),
				},
			})
		}
	}

	p.logger.Debug("listed feed changes", "feed", link.Name, "events", len(events), "changes", len(changes))
	return changes, nil
}

// relevant reports whether the event is worth mirroring locally: either
// non-recurring, or recurring with at least one occurrence inside the
// horizon.
func (p *Provider) relevant(ev parsedEvent, now time.Time) bool {
	if ev.RRule == "" {
		return true
	}
	return hasOccurrenceWithin(ev, now, now.Add(p.horizon), p.maxOccurrences)
}

func (p *Provider) linkState(id uuid.UUID) *feedState {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.cache[id]
	if !ok {
		state = &feedState{seen: make(map[string]struct{})}
		p.cache[id] = state
	}
	return state
}

// fetch retrieves the feed honoring ETag / Last-Modified, falling back
// to the cached body on 304 or network failure.
func (p *Provider) fetch(ctx context.Context, link domain.ProviderLink, state *feedState) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.Endpoint, nil)
	if err != nil {
		return nil, domain.NewProviderError(domain.KindRejected, ProviderName, err)
	}

	p.mu.Lock()
	if state.etag != "" {
		req.Header.Set("If-None-Match", state.etag)
	}
	if state.lastModified != "" {
		req.Header.Set("If-Modified-Since", state.lastModified)
	}
	cached := state.body
	p.mu.Unlock()

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if len(cached) > 0 {
			p.logger.Warn("feed fetch failed, using cached body", "feed", link.Name, "error", err)
			return cached, nil
		}
		return nil, domain.NewProviderError(domain.KindUnavailable, ProviderName, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, domain.NewProviderError(domain.KindUnavailable, ProviderName, err)
		}
		p.mu.Lock()
		state.etag = resp.Header.Get("ETag")
		state.lastModified = resp.Header.Get("Last-Modified")
		state.body = body
		p.mu.Unlock()
		return body, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return nil, domain.NewProviderError(domain.KindUnavailable, ProviderName,
				errors.New("304 Not Modified with no cached body"))
		}
		return cached, nil

	default:
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, domain.NewProviderError(domain.KindUnavailable, ProviderName, fmt.Errorf("status %d", resp.StatusCode))
		}
		return nil, domain.NewProviderError(domain.KindRejected, ProviderName, fmt.Errorf("status %d", resp.StatusCode))
	}
}
