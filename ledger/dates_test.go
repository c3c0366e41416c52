package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("Mon Jan 01 2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("2024-01-01")
	assert.Error(t, err)
}

func TestSortedDatesCalendarOrder(t *testing.T) {
	perf := map[string]float64{
		"Fri Jan 05 2024": 1,
		"Mon Jan 01 2024": 2,
		"Sun Dec 31 2023": 3,
	}
	dates, malformed := sortedDates(perf)
	assert.Empty(t, malformed)
	assert.Equal(t, []string{"Sun Dec 31 2023", "Mon Jan 01 2024", "Fri Jan 05 2024"}, dates)
}

func TestSortedDatesMalformedFirst(t *testing.T) {
	perf := map[string]float64{
		"Mon Jan 01 2024": 1,
		"zzz":             2,
		"aaa":             3,
	}
	dates, malformed := sortedDates(perf)
	assert.ElementsMatch(t, []string{"zzz", "aaa"}, malformed)
	// Malformed keys sort before all valid dates, tie-broken lexically.
	assert.Equal(t, []string{"aaa", "zzz", "Mon Jan 01 2024"}, dates)
}

func TestLatestValue(t *testing.T) {
	v, malformed := latestValue(map[string]float64{
		"Mon Jan 01 2024": 10,
		"Wed Jan 03 2024": 20,
	})
	assert.Empty(t, malformed)
	assert.Equal(t, 20.0, v)

	v, _ = latestValue(nil)
	assert.Equal(t, 0.0, v)
}
