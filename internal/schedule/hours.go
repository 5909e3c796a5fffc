// Package schedule holds the business calendar, the service catalog and
// the slot-availability checker.
package schedule

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("schedule: invalid clock %q: %w", s, err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("schedule: clock %q out of range", s)
	}
	return c, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the wall-clock time to the given day.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// Window is one weekday's opening hours.
type Window struct {
	Open   Clock
	Close  Clock
	Closed bool
}

func (w Window) String() string {
	if w.Closed {
		return "fechado"
	}
	return w.Open.String() + " - " + w.Close.String()
}

// Week maps every weekday to its opening window. All seven weekdays must
// have an entry; closed days never yield slots.
type Week map[time.Weekday]Window

// DefaultWeek is the barbershop schedule: weekdays 09:00-18:00, Friday
// until 19:00, Saturday 08:00-17:00, Sunday closed.
func DefaultWeek() Week {
	return Week{
		time.Monday:    {Open: Clock{9, 0}, Close: Clock{18, 0}},
		time.Tuesday:   {Open: Clock{9, 0}, Close: Clock{18, 0}},
		time.Wednesday: {Open: Clock{9, 0}, Close: Clock{18, 0}},
		time.Thursday:  {Open: Clock{9, 0}, Close: Clock{18, 0}},
		time.Friday:    {Open: Clock{9, 0}, Close: Clock{19, 0}},
		time.Saturday:  {Open: Clock{8, 0}, Close: Clock{17, 0}},
		time.Sunday:    {Closed: true},
	}
}

// Validate checks that every weekday has an entry and open windows are
// well-formed.
func (w Week) Validate() error {
	for day := time.Sunday; day <= time.Saturday; day++ {
		win, ok := w[day]
		if !ok {
			return fmt.Errorf("schedule: missing window for %s", day)
		}
		if win.Closed {
			continue
		}
		if minutes(win.Close) <= minutes(win.Open) {
			return fmt.Errorf("schedule: %s closes at %s before opening at %s", day, win.Close, win.Open)
		}
	}
	return nil
}

// Window returns the opening hours for the weekday of t.
func (w Week) Window(t time.Time) Window {
	return w[t.Weekday()]
}

func minutes(c Clock) int {
	return c.Hour*60 + c.Minute
}
