package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/internal/models"
)

func TestWeekdays_MidWeekWindow(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

	days := Weekdays(5, 0, now)
	require.Len(t, days, 5)

	want := []struct {
		date   string
		wd     string
		isPast bool
	}{
		{"2024-06-10", "Mon", true},
		{"2024-06-11", "Tue", true},
		{"2024-06-12", "Wed", false},
		{"2024-06-13", "Thu", false},
		{"2024-06-14", "Fri", false},
	}

	for i, w := range want {
		assert.Equal(t, w.date, days[i].Key(), "day %d", i)
		assert.Equal(t, w.wd, days[i].Weekday, "day %d", i)
		assert.Equal(t, w.isPast, days[i].IsPast, "day %d", i)
	}
}

func TestWeekdays_SkipsWeekends(t *testing.T) {
	now := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	days := Weekdays(10, 0, now)
	require.Len(t, days, 10)

	for i, d := range days {
		wd := d.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd, "day %d", i)
		assert.NotEqual(t, time.Sunday, wd, "day %d", i)
		if i > 0 {
			assert.True(t, d.Date.After(days[i-1].Date), "dates must strictly increase")
		}
	}

	// A 10 day window starting Monday spans exactly two weeks.
	assert.Equal(t, "2024-06-10", days[0].Key())
	assert.Equal(t, "2024-06-21", days[9].Key())
}

func TestWeekdays_OffsetShiftsWholeWeeks(t *testing.T) {
	now := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	next := Weekdays(5, 1, now)
	require.Len(t, next, 5)
	assert.Equal(t, "2024-06-17", next[0].Key())

	for _, d := range next {
		assert.False(t, d.IsPast)
	}

	prev := Weekdays(5, -1, now)
	require.Len(t, prev, 5)
	assert.Equal(t, "2024-06-03", prev[0].Key())
	assert.True(t, AllPast(prev))
}

func TestWeekdays_TodayIsNeverPast(t *testing.T) {
	// Check every weekday as "today", across the reference week.
	for day := 10; day <= 14; day++ {
		now := time.Date(2024, 6, day, 23, 59, 0, 0, time.UTC)
		days := Weekdays(5, 0, now)

		todayKey := models.FormatDate(now)
		for _, d := range days {
			if d.Key() == todayKey {
				assert.False(t, d.IsPast, "today must not be past (now=%s)", todayKey)
			}
			if d.Date.Before(time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)) {
				assert.True(t, d.IsPast, "earlier day must be past (now=%s key=%s)", todayKey, d.Key())
			}
		}
	}
}

func TestWeekdays_WeekendAnchor(t *testing.T) {
	// Saturday: the week anchor is still the preceding Monday, so the whole
	// zero-offset window is in the past.
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	days := Weekdays(5, 0, now)
	require.Len(t, days, 5)
	assert.Equal(t, "2024-06-10", days[0].Key())
	assert.True(t, AllPast(days))
}

func TestWeekdays_Deterministic(t *testing.T) {
	now := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, Weekdays(11, 3, now), Weekdays(11, 3, now))
}

func TestWeekdays_BadCount(t *testing.T) {
	assert.Nil(t, Weekdays(0, 0, time.Now()))
}

func TestRangeLabel(t *testing.T) {
	now := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Mon, Jun 10 – Fri, Jun 14", RangeLabel(Weekdays(5, 0, now)))
	assert.Equal(t, "", RangeLabel(nil))
}

func TestAllPast_Empty(t *testing.T) {
	assert.False(t, AllPast(nil))
}
