package googlecal

import (
	"time"

	"calsync/internal/domain"
)

// Wire shapes for the Calendar v3 events API; only the fields the
// engine reconciles.

type listResponse struct {
	Items         []eventResource `json:"items"`
	NextPageToken string          `json:"nextPageToken"`
}

type eventResource struct {
	ID          string         `json:"id,omitempty"`
	Status      string         `json:"status,omitempty"` // "confirmed", "tentative", "cancelled"
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Start       *eventDateTime `json:"start,omitempty"`
	End         *eventDateTime `json:"end,omitempty"`
	Updated     string         `json:"updated,omitempty"` // RFC3339
	Recurrence  []string       `json:"recurrence,omitempty"`
}

type eventDateTime struct {
	Date     string `json:"date,omitempty"`     // all-day, "2006-01-02"
	DateTime string `json:"dateTime,omitempty"` // RFC3339
	TimeZone string `json:"timeZone,omitempty"`
}

func (dt *eventDateTime) toTime() (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.Date != "" {
		t, err := time.Parse("2006-01-02", dt.Date)
		return t, err == nil
	}
	t, err := time.Parse(time.RFC3339, dt.DateTime)
	return t, err == nil
}

func dateTimeFrom(t time.Time, allDay bool) *eventDateTime {
	if allDay {
		return &eventDateTime{Date: t.Format("2006-01-02")}
	}
	return &eventDateTime{DateTime: t.Format(time.RFC3339)}
}

func toRecord(item eventResource) *domain.Record {
	rec := &domain.Record{
		Kind:     domain.KindEvent,
		Title:    item.Summary,
		AllDay:   item.Start != nil && item.Start.Date != "",
		Category: "other",
		Priority: domain.PriorityNone,
	}
	if rec.Title == "" {
		rec.Title = "Untitled Event"
	}
	if start, ok := item.Start.toTime(); ok {
		rec.StartAt = start
	}
	if end, ok := item.End.toTime(); ok {
		rec.EndAt = &end
	}
	if item.Description != "" {
		notes := item.Description
		rec.Notes = &notes
	}
	if item.Location != "" {
		loc := item.Location
		rec.Location = &loc
	}
	if len(item.Recurrence) > 0 {
		rec.RecurrenceRule = []byte(item.Recurrence[0])
	}
	return rec
}

func fromRecord(rec *domain.Record) eventResource {
	item := eventResource{
		Summary: rec.Title,
		Start:   dateTimeFrom(rec.StartAt, rec.AllDay),
	}
	if rec.Notes != nil {
		item.Description = *rec.Notes
	}
	if rec.Location != nil {
		item.Location = *rec.Location
	}
	end := rec.StartAt
	if rec.EndAt != nil {
		end = *rec.EndAt
	} else if rec.AllDay {
		end = rec.StartAt.AddDate(0, 0, 1)
	} else {
		end = rec.StartAt.Add(time.Hour)
	}
	item.End = dateTimeFrom(end, rec.AllDay)
	if len(rec.RecurrenceRule) > 0 {
		item.Recurrence = []string{string(rec.RecurrenceRule)}
	}
	return item
}

func parseUpdated(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
