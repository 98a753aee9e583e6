package validation

import (
	"sort"
	"time"
)

// DateLayout is the wire format for calendar dates throughout the intake flow.
const DateLayout = "2006-01-02"

// DefaultLookaheadMonths bounds how far ahead entry dates are offered.
const DefaultLookaheadMonths = 6

// AllowedEntryDates builds the concrete entry dates a tenant offers: for the
// current month plus the following lookahead-1 months, every allowed
// day-of-month that is not in the past. Result is ascending.
func AllowedEntryDates(allowedDays []int, lookaheadMonths int, ref time.Time) []time.Time {
	if lookaheadMonths <= 0 {
		lookaheadMonths = DefaultLookaheadMonths
	}
	today := truncateToDay(ref)

	dates := make([]time.Time, 0, lookaheadMonths*len(allowedDays))
	for i := 0; i < lookaheadMonths; i++ {
		// time.Date normalizes month overflow into the following year.
		for _, day := range allowedDays {
			d := time.Date(today.Year(), today.Month()+time.Month(i), day, 0, 0, 0, 0, today.Location())
			if d.Before(today) {
				continue
			}
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// IsEntryDateAllowed re-derives eligibility server-side against the live
// allowed-day configuration instead of trusting a value picked from a form
// rendered earlier: the day-of-month must be configured and the date must not
// lie before the reference day.
func IsEntryDateAllowed(date time.Time, allowedDays []int, ref time.Time) bool {
	day := date.Day()
	allowed := false
	for _, d := range allowedDays {
		if d == day {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	return !truncateToDay(date).Before(truncateToDay(ref))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
