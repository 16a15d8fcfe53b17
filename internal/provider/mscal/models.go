package mscal

import (
	"time"

	"calsync/internal/domain"
)

// Wire shapes for the Microsoft Graph calendar events API.

type listResponse struct {
	Value    []eventResource `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

type eventResource struct {
	ID                   string         `json:"id,omitempty"`
	Subject              string         `json:"subject,omitempty"`
	BodyPreview          string         `json:"bodyPreview,omitempty"`
	IsAllDay             bool           `json:"isAllDay,omitempty"`
	Start                *dateTimeZone  `json:"start,omitempty"`
	End                  *dateTimeZone  `json:"end,omitempty"`
	Location             *eventLocation `json:"location,omitempty"`
	LastModifiedDateTime string         `json:"lastModifiedDateTime,omitempty"`
}

type dateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventLocation struct {
	DisplayName string `json:"displayName,omitempty"`
}

// Graph serves local date-times without an offset, zone named separately.
const graphTimeLayout = "2006-01-02T15:04:05.9999999"

func (dt *dateTimeZone) toTime() (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	loc := time.UTC
	if dt.TimeZone != "" && dt.TimeZone != "UTC" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(graphTimeLayout, dt.DateTime, loc)
	return t, err == nil
}

func zonedFrom(t time.Time) *dateTimeZone {
	return &dateTimeZone{
		DateTime: t.UTC().Format(graphTimeLayout),
		TimeZone: "UTC",
	}
}

func toRecord(item eventResource) *domain.Record {
	rec := &domain.Record{
		Kind:     domain.KindEvent,
		Title:    item.Subject,
		AllDay:   item.IsAllDay,
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
	if item.BodyPreview != "" {
		notes := item.BodyPreview
		rec.Notes = &notes
	}
	if item.Location != nil && item.Location.DisplayName != "" {
		loc := item.Location.DisplayName
		rec.Location = &loc
	}
	return rec
}

func fromRecord(rec *domain.Record) eventResource {
	item := eventResource{
		Subject:  rec.Title,
		IsAllDay: rec.AllDay,
		Start:    zonedFrom(rec.StartAt),
	}
	end := rec.StartAt.Add(time.Hour)
	if rec.EndAt != nil {
		end = *rec.EndAt
	} else if rec.AllDay {
		end = rec.StartAt.AddDate(0, 0, 1)
	}
	item.End = zonedFrom(end)
	if rec.Location != nil {
		item.Location = &eventLocation{DisplayName: *rec.Location}
	}
	return item
}

func parseModified(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
