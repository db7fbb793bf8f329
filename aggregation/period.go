// Package aggregation derives counter statistics from the raw event ledger
package aggregation

import (
	"time"

	"github.com/amirphl/tallybook/models"
)

// PeriodStart returns the start of the period enclosing now, in now's location.
// Weeks start on Monday; on a Monday the week starts at that day's midnight.
func PeriodStart(now time.Time, period models.Period) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch period {
	case models.PeriodHour:
		return time.Date(y, m, d, now.Hour(), 0, 0, 0, loc)
	case models.PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case models.PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case models.PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// Anchors returns the start instant of every period relative to now
func Anchors(now time.Time) map[models.Period]time.Time {
	anchors := make(map[models.Period]time.Time, len(models.Periods))
	for _, p := range models.Periods {
		anchors[p] = PeriodStart(now, p)
	}
	return anchors
}
