// Package timeparse resolves Brazilian Portuguese date/time phrases
// ("amanhã às 14:00", "segunda-feira 15:30", "12/03/2024 10:00") into
// concrete timestamps. Every resolution is computed against an explicit
// reference moment so results never depend on the wall clock.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a phrase carries a date but no usable time.
const (
	defaultHour   = 9
	defaultMinute = 0
)

var weekdays = map[string]time.Weekday{
	"segunda": time.Monday,
	"terca":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sabado":  time.Saturday,
	"domingo": time.Sunday,
}

// periodRule maps a period-of-day token to its default wall-clock time.
type periodRule struct {
	token  string
	hour   int
	minute int
}

// Matched against accent-folded text with word boundaries so that
// "amanhã" never matches the "manhã" token.
var periods = []periodRule{
	{"manha", 9, 0},
	{"tarde", 14, 0},
	{"noite", 19, 0},
	{"meio-dia", 12, 0},
	{"meio dia", 12, 0},
}

var (
	timeRe     = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	time12Re   = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)`)
	dateBRRe   = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	dateISORe  = regexp.MustCompile(`(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})`)
	relativeRe = regexp.MustCompile(`depois de amanha|amanha|hoje`)
	weekdayRe  = regexp.MustCompile(`(segunda|terca|quarta|quinta|sexta|sabado|domingo)[\-\s]?(feira)?`)
	dayMonthRe = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})`)
)

var accentFolder = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

func normalize(phrase string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(phrase)))
}

// Resolve maps a natural-language phrase to a concrete timestamp relative
// to ref. The strategies form an ordered fallback chain; the first match
// wins, so an explicit numeric date always beats a bare weekday name.
// Returns ok=false when no strategy matches.
func Resolve(phrase string, ref time.Time) (time.Time, bool) {
	text := normalize(phrase)
	if text == "" {
		return time.Time{}, false
	}

	strategies := []func(string, time.Time) (time.Time, bool){
		resolveExplicit,
		resolveRelativeDay,
		resolveWeekday,
		resolveDayMonth,
		resolveTimeOnly,
	}
	for _, strategy := range strategies {
		if t, ok := strategy(text, ref); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveExplicit handles "12/03/2024 14:30" and "2024/03/12 14:30".
func resolveExplicit(text string, ref time.Time) (time.Time, bool) {
	var year, month, day int
	if m := dateBRRe.FindStringSubmatch(text); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	} else if m := dateISORe.FindStringSubmatch(text); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else {
		return time.Time{}, false
	}

	// Explicit dates only pair with an explicit HH:MM; period-of-day
	// tokens never apply here.
	hour, minute := defaultHour, defaultMinute
	if h, mi, ok := clock24(text); ok {
		hour, minute = h, mi
	}
	return makeDate(year, month, day, hour, minute, ref.Location())
}

// resolveRelativeDay handles "hoje", "amanhã" and "depois de amanhã",
// with an optional time token.
func resolveRelativeDay(text string, ref time.Time) (time.Time, bool) {
	m := relativeRe.FindString(text)
	if m == "" {
		return time.Time{}, false
	}

	var offset int
	switch m {
	case "hoje":
		offset = 0
	case "amanha":
		offset = 1
	case "depois de amanha":
		offset = 2
	}

	day := ref.AddDate(0, 0, offset)
	hour, minute := defaultHour, defaultMinute
	if h, mi, ok := extractClock(text); ok {
		hour, minute = h, mi
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, ref.Location()), true
}

// resolveWeekday handles "segunda-feira 15:30", "sexta 16:00". A weekday
// always resolves strictly after the reference date: when the reference
// falls on the named weekday the result rolls to next week.
func resolveWeekday(text string, ref time.Time) (time.Time, bool) {
	m := weekdayRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	target, ok := weekdays[m[1]]
	if !ok {
		return time.Time{}, false
	}

	ahead := int(target) - int(ref.Weekday())
	if ahead <= 0 {
		ahead += 7
	}

	day := ref.AddDate(0, 0, ahead)
	hour, minute := defaultHour, defaultMinute
	if h, mi, ok := extractClock(text); ok {
		hour, minute = h, mi
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, ref.Location()), true
}

// resolveDayMonth handles a bare "12/03" and picks the nearest future
// occurrence: the reference year, or the next one when the date has
// already passed.
func resolveDayMonth(text string, ref time.Time) (time.Time, bool) {
	for _, idx := range dayMonthRe.FindAllStringSubmatchIndex(text, -1) {
		// Skip matches that are the prefix of a full DD/MM/YYYY date;
		// those belong to the explicit strategy.
		end := idx[1]
		if end+1 < len(text) && (text[end] == '/' || text[end] == '-') && isDigit(text[end+1]) {
			continue
		}
		day, _ := strconv.Atoi(text[idx[2]:idx[3]])
		month, _ := strconv.Atoi(text[idx[4]:idx[5]])

		hour, minute := defaultHour, defaultMinute
		if h, mi, ok := extractClock(text); ok {
			hour, minute = h, mi
		}

		t, ok := makeDate(ref.Year(), month, day, hour, minute, ref.Location())
		if !ok {
			return time.Time{}, false
		}
		if !dateOnly(t).After(dateOnly(ref)) {
			t, ok = makeDate(ref.Year()+1, month, day, hour, minute, ref.Location())
			if !ok {
				return time.Time{}, false
			}
		}
		return t, true
	}
	return time.Time{}, false
}

// resolveTimeOnly handles a bare "14:30": today when the time is still
// ahead of the reference moment, otherwise tomorrow.
func resolveTimeOnly(text string, ref time.Time) (time.Time, bool) {
	hour, minute, ok := extractClock(text)
	if !ok {
		return time.Time{}, false
	}
	t := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
	if !t.After(ref) {
		t = t.AddDate(0, 0, 1)
	}
	return t, true
}

// extractClock pulls a wall-clock time out of the text: 24h form first,
// then 12h with am/pm, then period-of-day tokens. Out-of-range values are
// treated as no match, not an error.
func extractClock(text string) (int, int, bool) {
	if hour, minute, ok := clock24(text); ok {
		return hour, minute, true
	}

	if m := time12Re.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		switch {
		case m[3] == "pm" && hour != 12:
			hour += 12
		case m[3] == "am" && hour == 12:
			hour = 0
		}
		if validClock(hour, minute) {
			return hour, minute, true
		}
	}

	for _, p := range periods {
		if containsToken(text, p.token) {
			return p.hour, p.minute, true
		}
	}
	return 0, 0, false
}

// clock24 matches a bare 24h "HH:MM".
func clock24(text string) (int, int, bool) {
	m := timeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if !validClock(hour, minute) {
		return 0, 0, false
	}
	return hour, minute, true
}

// containsToken reports whether token occurs in text delimited by
// non-letter characters.
func containsToken(text, token string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		beforeOK := start == 0 || !isLetter(text[start-1])
		afterOK := end == len(text) || !isLetter(text[end])
		if beforeOK && afterOK {
			return true
		}
		from = start + 1
	}
}

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func validClock(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

// makeDate builds a timestamp and rejects impossible calendar dates
// (time.Date would silently normalize them).
func makeDate(year, month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
