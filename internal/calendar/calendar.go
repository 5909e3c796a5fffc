// Package calendar normalizes create/read/update/delete of calendar
// events behind one interface. The Google Calendar backend is used when
// credentials are configured; the in-memory client is the deterministic
// substitute for tests and credential-less environments.
package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrEventNotFound is returned by Event and UpdateEvent for unknown ids.
// DeleteEvent never returns it: cancelling an absent event is a success.
var ErrEventNotFound = errors.New("calendar: event not found")

// Event is a normalized calendar event.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status,omitempty"`
	Link        string    `json:"link,omitempty"`
}

// Info describes an entry in the account's calendar list.
type Info struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Primary bool   `json:"primary"`
}

// Client is the calendar backend capability consumed by the availability
// checker and the appointment orchestrator.
type Client interface {
	CreateEvent(ctx context.Context, calendarID string, ev Event) (Event, error)
	Events(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error)
	Event(ctx context.Context, calendarID, eventID string) (Event, error)
	UpdateEvent(ctx context.Context, calendarID string, ev Event) (Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	Calendars(ctx context.Context) ([]Info, error)
}

// Overlaps reports whether the event intersects the half-open window
// [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && e.End.After(from)
}
