package scheduler

import (
	"time"

	"github.com/tuttoai/agenda-ai-platform/internal/schedule"
)

// summaryPrefix tags every event the assistant creates so List can tell
// its own appointments from other calendar entries.
const summaryPrefix = "Barbearia - "

// Request is a booking request. CustomerName and ServiceID are
// required; the phone is kept on the customer record when given.
// Date/Time carry an explicit slot ("2006-01-02" / "15:04"); Phrase
// carries a natural-language one ("amanhã às 14h") and wins when both
// are set.
type Request struct {
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	ServiceID     string        `json:"service_id"`
	Date          string        `json:"date,omitempty"`
	Time          string        `json:"time,omitempty"`
	Phrase        string        `json:"phrase,omitempty"`
	Duration      time.Duration `json:"duration,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// Appointment is a booked slot as stored on the calendar.
type Appointment struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	ServiceID    string    `json:"service_id,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Status       string    `json:"status,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Link         string    `json:"link,omitempty"`
}

// DayAvailability lists the free slots of one business day.
type DayAvailability struct {
	Date   string          `json:"date"`
	Closed bool            `json:"closed"`
	Window string          `json:"window"`
	Slots  []schedule.Slot `json:"slots"`
}
