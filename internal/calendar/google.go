package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleClient implements Client against the Google Calendar API.
type GoogleClient struct {
	svc *gcal.Service
	loc *time.Location
}

// NewGoogleClient builds a client from a service-account credentials file.
func NewGoogleClient(ctx context.Context, credentialsFile string, loc *time.Location) (*GoogleClient, error) {
	if credentialsFile == "" {
		return nil, errors.New("calendar: credentials file is required")
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: create google service: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &GoogleClient{svc: svc, loc: loc}, nil
}

func (c *GoogleClient) CreateEvent(ctx context.Context, calendarID string, ev Event) (Event, error) {
	created, err := c.svc.Events.Insert(calendarID, c.toGoogle(ev)).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("calendar: create event: %w", err)
	}
	return c.fromGoogle(created), nil
}

func (c *GoogleClient) Events(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}
	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, c.fromGoogle(item))
	}
	return events, nil
}

func (c *GoogleClient) Event(ctx context.Context, calendarID, eventID string) (Event, error) {
	item, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("calendar: get event: %w", err)
	}
	return c.fromGoogle(item), nil
}

func (c *GoogleClient) UpdateEvent(ctx context.Context, calendarID string, ev Event) (Event, error) {
	updated, err := c.svc.Events.Update(calendarID, ev.ID, c.toGoogle(ev)).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("calendar: update event: %w", err)
	}
	return c.fromGoogle(updated), nil
}

// DeleteEvent removes an event. Deleting an already-absent event is
// treated as success so cancellation stays idempotent.
func (c *GoogleClient) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("calendar: delete event: %w", err)
	}
	return nil
}

func (c *GoogleClient) Calendars(ctx context.Context) ([]Info, error) {
	resp, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list calendars: %w", err)
	}
	infos := make([]Info, 0, len(resp.Items))
	for _, item := range resp.Items {
		infos = append(infos, Info{ID: item.Id, Summary: item.Summary, Primary: item.Primary})
	}
	return infos, nil
}

func (c *GoogleClient) toGoogle(ev Event) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Status:      ev.Status,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: c.loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: c.loc.String(),
		},
	}
}

func (c *GoogleClient) fromGoogle(item *gcal.Event) Event {
	ev := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Status:      item.Status,
		Link:        item.HtmlLink,
	}
	if item.Start != nil && item.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			ev.Start = t.In(c.loc)
		}
	}
	if item.End != nil && item.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
			ev.End = t.In(c.loc)
		}
	}
	return ev
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 404 || apiErr.Code == 410
	}
	return false
}
