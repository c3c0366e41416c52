// Package ledger implements the per-user exercise performance ledger as pure
// transition functions. Inputs are never mutated; every function returns a
// complete replacement value that the caller persists in one write.
//
// Two rules shape every transition:
//
//   - Retention: performance history is never deleted as a side effect of
//     activity or membership changes. Only an explicit date removal
//     (Unassign, Move) can drop data, and only for that date.
//   - Pruning: an entry whose performance map becomes empty is deleted
//     outright; empty entries exist only through presence-only adds.
package ledger

import (
	"gymdash-api/models"
)

// Entries is the ledger value: one entry per exercise id.
type Entries []models.ExercisePerformanceEntry

// clone deep-copies the ledger so transitions never alias caller state.
func (e Entries) clone() Entries {
	out := make(Entries, 0, len(e))
	for _, entry := range e {
		perf := make(map[string]float64, len(entry.Performance))
		for d, v := range entry.Performance {
			perf[d] = v
		}
		out = append(out, models.ExercisePerformanceEntry{ID: entry.ID, Performance: perf})
	}
	return out
}

func (e Entries) index(exerciseID string) int {
	for i := range e {
		if e[i].ID == exerciseID {
			return i
		}
	}
	return -1
}

// AddExercises guarantees an entry exists for each id, inserting entries
// with empty performance maps for missing ones. Existing entries are left
// untouched, so re-adding an exercise is a no-op on its history. Used when
// an activity is created or gains an exercise, so the exercise shows up in
// the user's catalog before any date is assigned.
func AddExercises(entries Entries, exerciseIDs []string) Entries {
	out := entries.clone()
	for _, id := range exerciseIDs {
		if out.index(id) >= 0 {
			continue
		}
		out = append(out, models.ExercisePerformanceEntry{
			ID:          id,
			Performance: map[string]float64{},
		})
	}
	return out
}

// RemoveExercises drops entries for the given ids only when their
// performance maps are empty. Entries with history are retained even though
// no activity references them anymore: recorded performance must never be
// destroyed by a membership change.
func RemoveExercises(entries Entries, exerciseIDs []string) Entries {
	removable := make(map[string]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		removable[id] = true
	}
	out := make(Entries, 0, len(entries))
	for _, entry := range entries.clone() {
		if removable[entry.ID] && len(entry.Performance) == 0 {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Assign seeds performance for every exercise of an assigned activity on the
// target date. An exercise with no history starts at 0; one with history
// carries its chronologically latest value forward, so progress charts do
// not regress to zero on each new assignment. Returned warnings list
// malformed date keys encountered while ordering history.
func Assign(entries Entries, exerciseIDs []string, date string) (Entries, []string) {
	out := entries.clone()
	var warnings []string
	for _, id := range exerciseIDs {
		i := out.index(id)
		if i < 0 {
			out = append(out, models.ExercisePerformanceEntry{
				ID:          id,
				Performance: map[string]float64{date: 0},
			})
			continue
		}
		if len(out[i].Performance) == 0 {
			out[i].Performance[date] = 0
			continue
		}
		last, malformed := latestValue(out[i].Performance)
		warnings = append(warnings, malformed...)
		out[i].Performance[date] = last
	}
	return out, warnings
}

// Unassign removes the date's value from every exercise of the activity and
// prunes entries that end up with no history at all.
func Unassign(entries Entries, exerciseIDs []string, date string) Entries {
	affected := make(map[string]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		affected[id] = true
	}
	out := make(Entries, 0, len(entries))
	for _, entry := range entries.clone() {
		if affected[entry.ID] {
			delete(entry.Performance, date)
			if len(entry.Performance) == 0 {
				continue
			}
		}
		out = append(out, entry)
	}
	return out
}

// Move re-dates an assignment: the old date's value is deleted first, then
// the new date is seeded from the latest remaining value (0 when nothing
// remains). This is deliberately not a rename; the value that sat at oldDate
// is discarded and re-derived from the rest of the history.
func Move(entries Entries, exerciseIDs []string, oldDate, newDate string) (Entries, []string) {
	affected := make(map[string]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		affected[id] = true
	}
	out := entries.clone()
	var warnings []string
	for i := range out {
		if !affected[out[i].ID] {
			continue
		}
		delete(out[i].Performance, oldDate)
		reset, malformed := latestValue(out[i].Performance)
		warnings = append(warnings, malformed...)
		out[i].Performance[newDate] = reset
	}
	return out, warnings
}

// SetPerformance records a user-entered measurement for one exercise and
// date, creating the entry when missing. The value is authoritative: it
// overwrites unconditionally and bypasses carry-forward.
func SetPerformance(entries Entries, exerciseID, date string, value float64) Entries {
	out := entries.clone()
	if i := out.index(exerciseID); i >= 0 {
		out[i].Performance[date] = value
		return out
	}
	return append(out, models.ExercisePerformanceEntry{
		ID:          exerciseID,
		Performance: map[string]float64{date: value},
	})
}
