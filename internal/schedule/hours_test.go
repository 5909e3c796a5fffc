package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock{9, 30}, c)
	assert.Equal(t, "09:30", c.String())

	for _, bad := range []string{"", "abc", "24:00", "12:60", "-1:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "expected %q to fail", bad)
	}
}

func TestClockOn(t *testing.T) {
	day := time.Date(2024, time.August, 5, 17, 45, 12, 0, time.Local)
	got := Clock{9, 0}.On(day)
	assert.Equal(t, time.Date(2024, time.August, 5, 9, 0, 0, 0, time.Local), got)
}

func TestDefaultWeekValid(t *testing.T) {
	week := DefaultWeek()
	require.NoError(t, week.Validate())
	assert.True(t, week[time.Sunday].Closed)
	assert.Equal(t, "09:00 - 19:00", week[time.Friday].String())
	assert.Equal(t, "fechado", week[time.Sunday].String())
}

func TestWeekValidateRejectsGaps(t *testing.T) {
	week := DefaultWeek()
	delete(week, time.Wednesday)
	assert.Error(t, week.Validate())

	week = DefaultWeek()
	week[time.Monday] = Window{Open: Clock{18, 0}, Close: Clock{9, 0}}
	assert.Error(t, week.Validate())
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.NoError(t, catalog.Validate())

	svc, ok := catalog.Get("corte_simples")
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, svc.Duration)
	assert.Equal(t, 25.00, svc.Price)

	_, ok = catalog.Get("luzes")
	assert.False(t, ok)

	assert.Equal(t, []string{"barba", "corte_barba", "corte_completo", "corte_simples", "sobrancelha"}, catalog.IDs())
}

func TestCatalogValidateRejectsZeroDuration(t *testing.T) {
	catalog := Catalog{"piscar": {ID: "piscar", Duration: 0, Price: 1}}
	assert.Error(t, catalog.Validate())
}
