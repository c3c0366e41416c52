package ledger

import (
	"sort"
	"time"
)

// DateLayout is the fixed calendar-date format used as performance map keys,
// e.g. "Mon Jan 02 2006". Keys must be ordered by parsed calendar date;
// lexical order would put "Fri Jan 05 2024" before "Mon Jan 01 2024".
const DateLayout = "Mon Jan 02 2006"

// ParseDate parses a performance map key into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// sortedDates returns the performance map keys in ascending calendar order.
// Keys that fail to parse sort before all valid dates so that historical
// data with malformed keys can never win a latest-date lookup or crash the
// engine. Malformed keys are reported so callers can log them.
func sortedDates(performance map[string]float64) (dates []string, malformed []string) {
	dates = make([]string, 0, len(performance))
	for d := range performance {
		dates = append(dates, d)
	}
	parsed := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		t, err := ParseDate(d)
		if err != nil {
			malformed = append(malformed, d)
			continue
		}
		parsed[d] = t
	}
	sort.Slice(dates, func(i, j int) bool {
		ti, iok := parsed[dates[i]]
		tj, jok := parsed[dates[j]]
		switch {
		case !iok && !jok:
			return dates[i] < dates[j]
		case !iok:
			return true
		case !jok:
			return false
		default:
			return ti.Before(tj)
		}
	})
	return dates, malformed
}

// latestValue returns the value stored under the chronologically latest key,
// or 0 when the map is empty. The second return lists malformed keys seen
// while ordering.
func latestValue(performance map[string]float64) (float64, []string) {
	if len(performance) == 0 {
		return 0, nil
	}
	dates, malformed := sortedDates(performance)
	return performance[dates[len(dates)-1]], malformed
}
