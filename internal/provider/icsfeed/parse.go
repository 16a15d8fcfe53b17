package icsfeed

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"calsync/internal/domain"
)

// parsedEvent is the normalized form of a feed VEVENT.
type parsedEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	RRule       string
	Modified    *time.Time
}

func (ev parsedEvent) toRecord() *domain.Record {
	rec := &domain.Record{
		Kind:     domain.KindEvent,
		Title:    ev.Summary,
		StartAt:  ev.Start,
		AllDay:   ev.AllDay,
		Category: "other",
		Priority: domain.PriorityNone,
	}
	if rec.Title == "" {
		rec.Title = "Untitled Event"
	}
	if !ev.End.IsZero() {
		end := ev.End
		rec.EndAt = &end
	}
	if ev.Description != "" {
		notes := ev.Description
		rec.Notes = &notes
	}
	if ev.Location != "" {
		loc := ev.Location
		rec.Location = &loc
	}
	if ev.RRule != "" {
		rec.RecurrenceRule = []byte(ev.RRule)
	}
	return rec
}

// parseFeed parses an ICS payload into normalized events. Individual
// malformed VEVENTs are skipped; the payload as a whole failing to parse
// is an error.
func parseFeed(body []byte) ([]parsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]parsedEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, bool) {
	var out parsedEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, false
	}
	out.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false
	}
	out.Start = start
	if end, err := ve.GetEndAt(); err == nil {
		out.End = end
	}

	// All-day: DTSTART carries VALUE=DATE or a bare YYYYMMDD value.
	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		} else if !strings.Contains(dtStart.Value, "T") {
			out.AllDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertyLastModified); p != nil {
		if t, err := time.Parse("20060102T150405Z", p.Value); err == nil {
			out.Modified = &t
		}
	}
	if out.Modified == nil {
		if p := ve.GetProperty(ical.ComponentPropertyDtstamp); p != nil {
			if t, err := time.Parse("20060102T150405Z", p.Value); err == nil {
				out.Modified = &t
			}
		}
	}

	return out, true
}

// hasOccurrenceWithin reports whether the recurring event has at least
// one occurrence in [from, to], iterating at most limit occurrences.
func hasOccurrenceWithin(ev parsedEvent, from, to time.Time, limit int) bool {
	opts, err := rrule.StrToROption(ev.RRule)
	if err != nil {
		// Unparseable rule: keep the event rather than silently drop it.
		return true
	}
	opts.Dtstart = ev.Start

	r, err := rrule.NewRRule(*opts)
	if err != nil {
		return true
	}

	next := r.Iterator()
	for i := 0; i < limit; i++ {
		t, ok := next()
		if !ok {
			return false
		}
		if t.After(to) {
			return false
		}
		if !t.Before(from) {
			return true
		}
	}
	return false
}
