package icsfeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calsync/internal/domain"
)

const feedTwoEvents = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:holiday-1
SUMMARY:Midsummer
DTSTART;VALUE=DATE:20250620
DTEND;VALUE=DATE:20250621
LAST-MODIFIED:20250601T080000Z
END:VEVENT
BEGIN:VEVENT
UID:meeting-1
SUMMARY:Town hall
LOCATION:Main square
DESCRIPTION:Bring questions
DTSTART:20250625T170000Z
DTEND:20250625T180000Z
DTSTAMP:20250601T090000Z
END:VEVENT
END:VCALENDAR
`

const feedOneEvent = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:holiday-1
SUMMARY:Midsummer
DTSTART;VALUE=DATE:20250620
DTEND;VALUE=DATE:20250621
LAST-MODIFIED:20250601T080000Z
END:VEVENT
END:VCALENDAR
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testProvider() *Provider {
	return New(Config{
		Timeout:        5 * time.Second,
		Horizon:        365 * 24 * time.Hour,
		MaxOccurrences: 100,
	}, testLogger())
}

func feedLink(url string) domain.ProviderLink {
	return domain.ProviderLink{
		ID:       uuid.New(),
		Provider: ProviderName,
		Name:     "city feed",
		Endpoint: url,
	}
}

func TestListChanges_SnapshotUpserts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedTwoEvents)
	}))
	defer server.Close()

	link := feedLink(server.URL)
	p := testProvider()

	changes, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)
	require.Len(t, changes, 2)

	byUID := map[string]domain.RemoteChange{}
	for _, ch := range changes {
		byUID[ch.Key.ItemID] = ch
	}

	holiday := byUID["holiday-1"]
	assert.Equal(t, domain.ChangeUpsert, holiday.Type)
	assert.Equal(t, link.ID.String(), holiday.Key.CalendarID)
	assert.Equal(t, "Midsummer", holiday.Record.Title)
	assert.True(t, holiday.Record.AllDay)
	require.NotNil(t, holiday.ModifiedAt)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), holiday.ModifiedAt.UTC())

	meeting := byUID["meeting-1"]
	assert.False(t, meeting.Record.AllDay)
	require.NotNil(t, meeting.Record.Location)
	assert.Equal(t, "Main square", *meeting.Record.Location)
	require.NotNil(t, meeting.Record.Notes)
	assert.Equal(t, "Bring questions", *meeting.Record.Notes)
}

func TestListChanges_AbsenceBecomesDeletion(t *testing.T) {
	var body atomic.Value
	body.Store(feedTwoEvents)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body.Load().(string))
	}))
	defer server.Close()

	link := feedLink(server.URL)
	p := testProvider()

	first, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)
	require.Len(t, first, 2)

	body.Store(feedOneEvent)

	second, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)
	require.Len(t, second, 2)

	var deletion *domain.RemoteChange
	for i := range second {
		if second[i].Type == domain.ChangeDelete {
			deletion = &second[i]
		}
	}
	require.NotNil(t, deletion)
	assert.Equal(t, "meeting-1", deletion.Key.ItemID)
	assert.Equal(t, link.ID.String(), deletion.Key.CalendarID)
}

func TestListChanges_SeenSetsAreIndependentPerLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedOneEvent)
	}))
	defer server.Close()

	p := testProvider()
	linkA := feedLink(server.URL)
	linkB := feedLink(server.URL)

	changesA, err := p.ListChanges(context.Background(), linkA, time.Time{})
	require.NoError(t, err)
	changesB, err := p.ListChanges(context.Background(), linkB, time.Time{})
	require.NoError(t, err)

	// Same UID on two subscriptions yields two distinct keys.
	assert.NotEqual(t, changesA[0].Key, changesB[0].Key)
}

func TestFetch_NotModifiedUsesCachedBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("ETag", `"v1"`)
			fmt.Fprint(w, feedOneEvent)
			return
		}
		assert.Equal(t, `"v1"`, r.Header.Get("If-None-Match"))
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	link := feedLink(server.URL)
	p := testProvider()

	first, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Key, second[0].Key)
}

func TestFetch_NetworkFailureFallsBackToCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedOneEvent)
	}))

	link := feedLink(server.URL)
	p := testProvider()

	_, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)

	server.Close() // feed goes dark

	changes, err := p.ListChanges(context.Background(), link, time.Time{})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeUpsert, changes[0].Type)
}

func TestFetch_FailureWithoutCacheIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := testProvider()
	_, err := p.ListChanges(context.Background(), feedLink(server.URL), time.Time{})
	assert.True(t, domain.IsUnavailable(err))
}

func TestFetch_NotFoundIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := testProvider()
	_, err := p.ListChanges(context.Background(), feedLink(server.URL), time.Time{})
	assert.True(t, domain.IsRejected(err))
}

func TestPush_AlwaysUnsupported(t *testing.T) {
	p := testProvider()
	ctx := context.Background()
	link := feedLink("https://example.com/feed.ics")
	rec := domain.NewLocalRecord(domain.KindEvent, "test", time.Now().UTC())
	key := domain.ExternalKey{Provider: ProviderName, ItemID: "uid-1"}

	_, err := p.PushCreate(ctx, link, rec)
	assert.True(t, domain.IsUnsupported(err))
	assert.True(t, domain.IsUnsupported(p.PushUpdate(ctx, link, rec, key)))
	assert.True(t, domain.IsUnsupported(p.PushDelete(ctx, link, key)))
}

func TestCanWrite(t *testing.T) {
	assert.False(t, testProvider().CanWrite())
}
