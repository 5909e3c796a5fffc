package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

// maxSuggestions caps the alternative slots offered on a conflict.
const maxSuggestions = 3

// slotStep is the boundary interval slots are generated on.
const slotStep = 30 * time.Minute

// Slot is a candidate {start, end} interval for a service.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Label renders the slot's start as "HH:MM" for user-facing text.
func (s Slot) Label() string {
	return s.Start.Format("15:04")
}

// SlotCheck is the result of a single slot availability test.
type SlotCheck struct {
	Available   bool
	Conflicts   []calendar.Event
	Suggestions []Slot
}

// Checker answers free/busy questions against the calendar backend.
type Checker struct {
	cal    calendar.Client
	week   Week
	logger *logging.Logger
}

// NewChecker constructs an availability checker.
func NewChecker(cal calendar.Client, week Week, logger *logging.Logger) *Checker {
	if cal == nil {
		panic("schedule: calendar client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Checker{cal: cal, week: week, logger: logger}
}

// Week exposes the checker's business calendar.
func (c *Checker) Week() Week {
	return c.week
}

// CheckSlot fetches events overlapping [start, start+duration) and reports
// free/busy. On conflict it offers up to three same-day alternatives,
// each cross-checked against that day's existing events.
func (c *Checker) CheckSlot(ctx context.Context, calendarID string, start time.Time, duration time.Duration) (SlotCheck, error) {
	conflicts, err := c.cal.Events(ctx, calendarID, start, start.Add(duration))
	if err != nil {
		return SlotCheck{}, fmt.Errorf("schedule: fetch conflicting events: %w", err)
	}
	if len(conflicts) == 0 {
		return SlotCheck{Available: true}, nil
	}

	dayEvents, err := c.dayEvents(ctx, calendarID, start)
	if err != nil {
		return SlotCheck{}, err
	}

	var suggestions []Slot
	for _, slot := range c.generateSlots(start, duration, dayEvents) {
		suggestions = append(suggestions, slot)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	c.logger.Info("slot unavailable",
		"calendar_id", calendarID,
		"start", start,
		"conflicts", len(conflicts),
		"suggestions", len(suggestions),
	)
	return SlotCheck{Available: false, Conflicts: conflicts, Suggestions: suggestions}, nil
}

// DaySlots lists every free half-hour boundary of the day whose
// [slot, slot+duration) interval fits the business window.
func (c *Checker) DaySlots(ctx context.Context, calendarID string, day time.Time, duration time.Duration) ([]Slot, error) {
	window := c.week.Window(day)
	if window.Closed {
		return nil, nil
	}
	events, err := c.dayEvents(ctx, calendarID, day)
	if err != nil {
		return nil, err
	}
	return c.generateSlots(day, duration, events), nil
}

func (c *Checker) dayEvents(ctx context.Context, calendarID string, day time.Time) ([]calendar.Event, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	events, err := c.cal.Events(ctx, calendarID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("schedule: fetch day events: %w", err)
	}
	return events, nil
}

// generateSlots walks the day's half-hour boundaries, keeping slots that
// end at or before closing time and are not blocked by an existing event.
func (c *Checker) generateSlots(day time.Time, duration time.Duration, events []calendar.Event) []Slot {
	window := c.week.Window(day)
	if window.Closed {
		return nil
	}

	var slots []Slot
	closeAt := window.Close.On(day)
	for start := window.Open.On(day); !start.Add(duration).After(closeAt); start = start.Add(slotStep) {
		if blocked(start, events) {
			continue
		}
		slots = append(slots, Slot{Start: start, End: start.Add(duration)})
	}
	return slots
}

// blocked applies the half-open comparison: a slot is blocked when
// event_start <= slot_start < event_end, so back-to-back slots never
// falsely conflict.
func blocked(slotStart time.Time, events []calendar.Event) bool {
	for _, ev := range events {
		if !ev.Start.After(slotStart) && ev.End.After(slotStart) {
			return true
		}
	}
	return false
}
