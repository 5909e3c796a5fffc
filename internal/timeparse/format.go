package timeparse

import (
	"fmt"
	"time"
)

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

var monthNames = [...]string{
	"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// FormatPTBR renders a resolved moment for user-facing confirmation text,
// e.g. "Segunda-feira, 2 de Setembro de 2024 às 14:00".
func FormatPTBR(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d às %02d:%02d",
		weekdayNames[t.Weekday()], t.Day(), monthNames[t.Month()], t.Year(), t.Hour(), t.Minute())
}

// FormatExplicit renders the moment in the explicit DD/MM/YYYY HH:MM form
// that Resolve accepts, so formatted moments can round-trip.
func FormatExplicit(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d %02d:%02d", t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute())
}

// DefaultBusinessDays is Monday through Saturday, matching a barbershop week.
var DefaultBusinessDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

// IsBusinessDay reports whether t falls on one of the given weekdays.
// A nil set means DefaultBusinessDays.
func IsBusinessDay(t time.Time, businessDays []time.Weekday) bool {
	if businessDays == nil {
		businessDays = DefaultBusinessDays
	}
	for _, d := range businessDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// NextBusinessDay advances one day at a time until it lands on a business day.
func NextBusinessDay(t time.Time, businessDays []time.Weekday) time.Time {
	next := t.AddDate(0, 0, 1)
	for !IsBusinessDay(next, businessDays) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
