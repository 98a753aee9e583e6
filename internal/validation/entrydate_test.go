package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAllowedEntryDatesSkipsPastAndKeepsConfiguredDays(t *testing.T) {
	ref := date(2024, time.March, 10)
	dates := AllowedEntryDates([]int{1, 15}, 6, ref)

	require.NotEmpty(t, dates)
	for _, d := range dates {
		assert.False(t, d.Before(ref), "date %s lies before reference", d)
		assert.Contains(t, []int{1, 15}, d.Day())
	}

	// March 1st is gone, March 15th is the first offer.
	assert.Equal(t, date(2024, time.March, 15), dates[0])
}

func TestAllowedEntryDatesAscendingAndCrossingYearEnd(t *testing.T) {
	ref := date(2024, time.November, 20)
	dates := AllowedEntryDates([]int{1, 15}, 6, ref)

	for i := 1; i < len(dates); i++ {
		assert.True(t, dates[i-1].Before(dates[i]), "dates not strictly ascending")
	}

	// Lookahead from November reaches into next April.
	assert.Equal(t, date(2025, time.April, 15), dates[len(dates)-1])
}

func TestAllowedEntryDatesIncludesReferenceDayItself(t *testing.T) {
	ref := date(2024, time.June, 1)
	dates := AllowedEntryDates([]int{1}, 1, ref)

	require.Len(t, dates, 1)
	assert.Equal(t, ref, dates[0])
}

func TestIsEntryDateAllowed(t *testing.T) {
	ref := date(2024, time.March, 10)
	days := []int{1, 15}

	assert.True(t, IsEntryDateAllowed(date(2024, time.March, 15), days, ref))
	assert.True(t, IsEntryDateAllowed(date(2024, time.April, 1), days, ref))

	// Day not configured, regardless of what a stale form offered.
	assert.False(t, IsEntryDateAllowed(date(2024, time.March, 20), days, ref))

	// Configured day but in the past.
	assert.False(t, IsEntryDateAllowed(date(2024, time.March, 1), days, ref))

	// Same day as reference counts as future.
	assert.True(t, IsEntryDateAllowed(date(2024, time.March, 15), days, date(2024, time.March, 15)))
}
