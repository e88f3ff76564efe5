package calendar

import (
	"time"

	"clinic-portal/internal/models"
)

// Weekdays generates the selectable business days for one calendar page.
// The window is anchored at the Monday of the current week shifted by
// pageOffset*7 days, walks forward one calendar day at a time and emits
// Monday-Friday only, until count entries are produced. The result is
// deterministic for a given (count, pageOffset, now).
func Weekdays(count, pageOffset int, now time.Time) []models.CalendarDay {
	if count < 1 {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Monday of the current week: Sunday=0..Saturday=6.
	start := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	start = start.AddDate(0, 0, pageOffset*7)

	days := make([]models.CalendarDay, 0, count)

	date := start
	for len(days) < count {
		wd := date.Weekday()
		if wd >= time.Monday && wd <= time.Friday {
			days = append(days, models.CalendarDay{
				Date:    date,
				Weekday: date.Format("Mon"),
				Label:   date.Format("Jan 2"),
				IsPast:  date.Before(today),
			})
		}
		date = date.AddDate(0, 0, 1)
	}

	return days
}

// AllPast reports whether every day of the window lies before today.
func AllPast(days []models.CalendarDay) bool {
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if !d.IsPast {
			return false
		}
	}
	return true
}

// RangeLabel renders the "Mon, Jun 10 – Fri, Jun 14" window header.
func RangeLabel(days []models.CalendarDay) string {
	if len(days) == 0 {
		return ""
	}
	first := days[0]
	last := days[len(days)-1]
	return first.Weekday + ", " + first.Label + " – " + last.Weekday + ", " + last.Label
}
