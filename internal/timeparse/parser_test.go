package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sunday, 4 August 2024, 10:00 local time.
var ref = time.Date(2024, time.August, 4, 10, 0, 0, 0, time.Local)

func TestResolveExplicitDates(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{
			name:   "brazilian date with time",
			phrase: "12/03/2024 10:00",
			want:   time.Date(2024, time.March, 12, 10, 0, 0, 0, time.Local),
		},
		{
			name:   "brazilian date without time defaults to morning",
			phrase: "agendar para 15/10/2024",
			want:   time.Date(2024, time.October, 15, 9, 0, 0, 0, time.Local),
		},
		{
			name:   "iso date with time",
			phrase: "2024-09-02 08:15",
			want:   time.Date(2024, time.September, 2, 8, 15, 0, 0, time.Local),
		},
		{
			name:   "explicit date beats weekday mention",
			phrase: "segunda 20/09/2024 11:00",
			want:   time.Date(2024, time.September, 20, 11, 0, 0, 0, time.Local),
		},
		{
			name:   "period token does not apply to explicit dates",
			phrase: "12/03/2024 de tarde",
			want:   time.Date(2024, time.March, 12, 9, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.phrase, ref)
			require.True(t, ok, "expected %q to resolve", tt.phrase)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRelativeDays(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{
			name:   "tomorrow with explicit time",
			phrase: "amanhã às 14:00",
			want:   time.Date(2024, time.August, 5, 14, 0, 0, 0, time.Local),
		},
		{
			name:   "today in the afternoon",
			phrase: "hoje de tarde",
			want:   time.Date(2024, time.August, 4, 14, 0, 0, 0, time.Local),
		},
		{
			name:   "day after tomorrow defaults to morning",
			phrase: "depois de amanhã",
			want:   time.Date(2024, time.August, 6, 9, 0, 0, 0, time.Local),
		},
		{
			name:   "tomorrow afternoon period",
			phrase: "amanhã de tarde",
			want:   time.Date(2024, time.August, 5, 14, 0, 0, 0, time.Local),
		},
		{
			name:   "tomorrow evening",
			phrase: "amanha à noite",
			want:   time.Date(2024, time.August, 5, 19, 0, 0, 0, time.Local),
		},
		{
			name:   "explicit time beats period in same phrase",
			phrase: "amanhã de tarde às 16:00",
			want:   time.Date(2024, time.August, 5, 16, 0, 0, 0, time.Local),
		},
		{
			name:   "invalid hour falls back to default",
			phrase: "hoje às 25:70",
			want:   time.Date(2024, time.August, 4, 9, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.phrase, ref)
			require.True(t, ok, "expected %q to resolve", tt.phrase)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Resolution depends only on the reference moment, never the wall clock.
func TestResolveTomorrowIsDeterministic(t *testing.T) {
	refs := []time.Time{
		time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, time.February, 29, 23, 59, 0, 0, time.Local),
		time.Date(2026, time.December, 31, 12, 30, 0, 0, time.Local),
	}
	for _, r := range refs {
		got, ok := Resolve("amanhã às 14:00", r)
		require.True(t, ok)
		want := time.Date(r.Year(), r.Month(), r.Day(), 14, 0, 0, 0, r.Location()).AddDate(0, 0, 1)
		assert.Equal(t, want, got, "ref %s", r)
	}
}

func TestResolveWeekdays(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{
			name:   "monday with time",
			phrase: "segunda-feira 15:30",
			want:   time.Date(2024, time.August, 5, 15, 30, 0, 0, time.Local),
		},
		{
			name:   "friday short form",
			phrase: "sexta 16:00",
			want:   time.Date(2024, time.August, 9, 16, 0, 0, 0, time.Local),
		},
		{
			name:   "wednesday morning period",
			phrase: "quarta-feira de manhã",
			want:   time.Date(2024, time.August, 7, 9, 0, 0, 0, time.Local),
		},
		{
			name:   "same weekday rolls to next week",
			phrase: "domingo 10:00",
			want:   time.Date(2024, time.August, 11, 10, 0, 0, 0, time.Local),
		},
		{
			name:   "accented weekday",
			phrase: "terça às 11:00",
			want:   time.Date(2024, time.August, 6, 11, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.phrase, ref)
			require.True(t, ok, "expected %q to resolve", tt.phrase)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A weekday phrase must always land strictly after the reference date,
// even when the reference already falls on that weekday.
func TestResolveWeekdayAlwaysInFuture(t *testing.T) {
	names := []string{"segunda", "terca", "quarta", "quinta", "sexta", "sabado", "domingo"}
	for day := 0; day < 7; day++ {
		r := ref.AddDate(0, 0, day)
		for _, name := range names {
			got, ok := Resolve(name, r)
			require.True(t, ok, "weekday %q ref %s", name, r)
			assert.True(t, dateOnly(got).After(dateOnly(r)),
				"%q resolved to %s, not after ref %s", name, got, r)
			assert.Equal(t, weekdays[name], got.Weekday())
		}
	}
}

func TestResolveDayMonth(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{
			name:   "future date this year",
			phrase: "25/12",
			want:   time.Date(2024, time.December, 25, 9, 0, 0, 0, time.Local),
		},
		{
			name:   "past date rolls to next year",
			phrase: "12/03 às 10:00",
			want:   time.Date(2025, time.March, 12, 10, 0, 0, 0, time.Local),
		},
		{
			name:   "same day rolls to next year",
			phrase: "04/08",
			want:   time.Date(2025, time.August, 4, 9, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.phrase, ref)
			require.True(t, ok, "expected %q to resolve", tt.phrase)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTimeOnly(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{
			name:   "future time stays today",
			phrase: "14:30",
			want:   time.Date(2024, time.August, 4, 14, 30, 0, 0, time.Local),
		},
		{
			name:   "past time moves to tomorrow",
			phrase: "09:30",
			want:   time.Date(2024, time.August, 5, 9, 30, 0, 0, time.Local),
		},
		{
			name:   "exact reference time moves to tomorrow",
			phrase: "10:00",
			want:   time.Date(2024, time.August, 5, 10, 0, 0, 0, time.Local),
		},
		{
			name:   "pm suffix converts to 24h",
			phrase: "2:30 pm",
			want:   time.Date(2024, time.August, 4, 14, 30, 0, 0, time.Local),
		},
		{
			name:   "midnight am form",
			phrase: "12:15 am",
			want:   time.Date(2024, time.August, 5, 0, 15, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.phrase, ref)
			require.True(t, ok, "expected %q to resolve", tt.phrase)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	phrases := []string{
		"",
		"quero cortar o cabelo",
		"25:99",
		"31/02/2024",
		"mês que vem",
	}
	for _, phrase := range phrases {
		_, ok := Resolve(phrase, ref)
		assert.False(t, ok, "expected %q not to resolve", phrase)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	moments := []time.Time{
		time.Date(2024, time.September, 2, 14, 0, 0, 0, time.Local),
		time.Date(2025, time.January, 31, 8, 5, 0, 0, time.Local),
		time.Date(2024, time.December, 25, 19, 30, 0, 0, time.Local),
	}
	for _, want := range moments {
		got, ok := Resolve(FormatExplicit(want), ref)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestFormatPTBR(t *testing.T) {
	moment := time.Date(2024, time.September, 2, 14, 0, 0, 0, time.Local)
	assert.Equal(t, "Segunda-feira, 2 de Setembro de 2024 às 14:00", FormatPTBR(moment))
}

func TestBusinessDays(t *testing.T) {
	saturday := time.Date(2024, time.August, 3, 10, 0, 0, 0, time.Local)
	sunday := saturday.AddDate(0, 0, 1)

	assert.True(t, IsBusinessDay(saturday, nil))
	assert.False(t, IsBusinessDay(sunday, nil))

	// Saturday's next business day skips Sunday.
	next := NextBusinessDay(saturday, nil)
	assert.Equal(t, time.Monday, next.Weekday())

	weekdaysOnly := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	assert.False(t, IsBusinessDay(saturday, weekdaysOnly))
	assert.Equal(t, time.Monday, NextBusinessDay(time.Date(2024, time.August, 2, 0, 0, 0, 0, time.Local), weekdaysOnly).Weekday())
}
