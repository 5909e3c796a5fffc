package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryClient is a deterministic in-memory Client used when no Google
// credentials are configured and in tests. Event ids are assigned from a
// monotonic counter so runs are reproducible.
type MemoryClient struct {
	mu      sync.Mutex
	events  map[string]map[string]Event // calendarID -> eventID -> event
	counter int
}

// NewMemoryClient creates an empty in-memory calendar backend.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{events: make(map[string]map[string]Event)}
}

func (c *MemoryClient) CreateEvent(_ context.Context, calendarID string, ev Event) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	ev.ID = fmt.Sprintf("mock_event_%d", c.counter)
	if ev.Status == "" {
		ev.Status = "confirmed"
	}
	if c.events[calendarID] == nil {
		c.events[calendarID] = make(map[string]Event)
	}
	c.events[calendarID][ev.ID] = ev
	return ev, nil
}

func (c *MemoryClient) Events(_ context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Event
	for _, ev := range c.events[calendarID] {
		if ev.Overlaps(from, to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (c *MemoryClient) Event(_ context.Context, calendarID, eventID string) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev, ok := c.events[calendarID][eventID]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return ev, nil
}

func (c *MemoryClient) UpdateEvent(_ context.Context, calendarID string, ev Event) (Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.events[calendarID][ev.ID]; !ok {
		return Event{}, ErrEventNotFound
	}
	c.events[calendarID][ev.ID] = ev
	return ev, nil
}

func (c *MemoryClient) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Absent events delete successfully; cancellation is idempotent.
	delete(c.events[calendarID], eventID)
	return nil
}

func (c *MemoryClient) Calendars(_ context.Context) ([]Info, error) {
	return []Info{{ID: "primary", Summary: "Agenda", Primary: true}}, nil
}
