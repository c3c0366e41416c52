package ledger

import (
	"testing"

	"gymdash-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, perf map[string]float64) models.ExercisePerformanceEntry {
	return models.ExercisePerformanceEntry{ID: id, Performance: perf}
}

func find(t *testing.T, entries Entries, id string) models.ExercisePerformanceEntry {
	t.Helper()
	i := entries.index(id)
	require.GreaterOrEqual(t, i, 0, "expected entry for %s", id)
	return entries[i]
}

func TestAddExercisesInsertsEmptyEntries(t *testing.T) {
	out := AddExercises(nil, []string{"squat", "bench"})
	assert.Len(t, out, 2)
	assert.Empty(t, find(t, out, "squat").Performance)
	assert.Empty(t, find(t, out, "bench").Performance)
}

func TestAddExercisesIsIdempotentOnExisting(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{"Mon Jan 01 2024": 80})}
	out := AddExercises(in, []string{"squat"})
	assert.Len(t, out, 1)
	assert.Equal(t, map[string]float64{"Mon Jan 01 2024": 80}, find(t, out, "squat").Performance)
}

func TestRemoveExercisesRetainsHistory(t *testing.T) {
	in := Entries{
		entry("squat", map[string]float64{"Mon Jan 01 2024": 80}),
		entry("bench", map[string]float64{}),
	}
	out := RemoveExercises(in, []string{"squat", "bench"})
	assert.Len(t, out, 1)
	assert.Equal(t, "squat", out[0].ID)
}

func TestRemoveExercisesIgnoresUnlistedEntries(t *testing.T) {
	in := Entries{entry("row", map[string]float64{})}
	out := RemoveExercises(in, []string{"squat"})
	assert.Len(t, out, 1)
}

func TestAssignSeedsZeroForNewExercise(t *testing.T) {
	out, warnings := Assign(nil, []string{"squat"}, "Wed Jan 03 2024")
	assert.Empty(t, warnings)
	assert.Equal(t, map[string]float64{"Wed Jan 03 2024": 0}, find(t, out, "squat").Performance)
}

func TestAssignSeedsZeroForEmptyEntry(t *testing.T) {
	in := AddExercises(nil, []string{"squat"})
	out, _ := Assign(in, []string{"squat"}, "Wed Jan 03 2024")
	assert.Equal(t, map[string]float64{"Wed Jan 03 2024": 0}, find(t, out, "squat").Performance)
}

func TestAssignCarriesLatestValueForward(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{
		"Mon Jan 01 2024": 80,
		"Tue Jan 02 2024": 85,
	})}
	out, warnings := Assign(in, []string{"squat"}, "Fri Jan 05 2024")
	assert.Empty(t, warnings)
	assert.Equal(t, 85.0, find(t, out, "squat").Performance["Fri Jan 05 2024"])
}

func TestAssignOrdersDatesByCalendarNotLexically(t *testing.T) {
	// Lexically "Fri Jan 05 2024" < "Mon Jan 01 2024"; by calendar the
	// Friday is later and its value must win.
	in := Entries{entry("squat", map[string]float64{
		"Mon Jan 01 2024": 80,
		"Fri Jan 05 2024": 95,
	})}
	out, _ := Assign(in, []string{"squat"}, "Sun Jan 07 2024")
	assert.Equal(t, 95.0, find(t, out, "squat").Performance["Sun Jan 07 2024"])
}

func TestAssignMalformedDatesSortFirstAndWarn(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{
		"not-a-date":      42,
		"Mon Jan 01 2024": 80,
	})}
	out, warnings := Assign(in, []string{"squat"}, "Wed Jan 03 2024")
	assert.Equal(t, []string{"not-a-date"}, warnings)
	assert.Equal(t, 80.0, find(t, out, "squat").Performance["Wed Jan 03 2024"])
}

func TestAssignOnlyMalformedDates(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{"garbage": 42})}
	out, warnings := Assign(in, []string{"squat"}, "Wed Jan 03 2024")
	assert.Equal(t, []string{"garbage"}, warnings)
	// The malformed key is still the only history; its value carries.
	assert.Equal(t, 42.0, find(t, out, "squat").Performance["Wed Jan 03 2024"])
}

func TestUnassignRemovesDateAndPrunesEmptyEntries(t *testing.T) {
	in := Entries{
		entry("squat", map[string]float64{"Wed Jan 03 2024": 80}),
		entry("bench", map[string]float64{"Mon Jan 01 2024": 50, "Wed Jan 03 2024": 55}),
	}
	out := Unassign(in, []string{"squat", "bench"}, "Wed Jan 03 2024")
	assert.Equal(t, -1, out.index("squat"), "entry with no dates left must be pruned")
	assert.Equal(t, map[string]float64{"Mon Jan 01 2024": 50}, find(t, out, "bench").Performance)
}

func TestUnassignLeavesUnrelatedExercisesAlone(t *testing.T) {
	in := Entries{entry("row", map[string]float64{"Wed Jan 03 2024": 60})}
	out := Unassign(in, []string{"squat"}, "Wed Jan 03 2024")
	assert.Equal(t, 60.0, find(t, out, "row").Performance["Wed Jan 03 2024"])
}

func TestMoveRederivesValueFromRemainingHistory(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{
		"Mon Jan 01 2024": 80,
		"Wed Jan 03 2024": 90,
	})}
	out, warnings := Move(in, []string{"squat"}, "Wed Jan 03 2024", "Fri Jan 05 2024")
	assert.Empty(t, warnings)
	perf := find(t, out, "squat").Performance
	assert.NotContains(t, perf, "Wed Jan 03 2024")
	// Not a rename: the 90 at the old date is discarded, the new date is
	// seeded from the latest remaining value.
	assert.Equal(t, 80.0, perf["Fri Jan 05 2024"])
}

func TestMoveWithNoRemainingHistoryResetsToZero(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{"Wed Jan 03 2024": 90})}
	out, _ := Move(in, []string{"squat"}, "Wed Jan 03 2024", "Fri Jan 05 2024")
	assert.Equal(t, map[string]float64{"Fri Jan 05 2024": 0}, find(t, out, "squat").Performance)
}

func TestSetPerformanceOverwritesUnconditionally(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{"Mon Jan 01 2024": 80})}
	out := SetPerformance(in, "squat", "Mon Jan 01 2024", 100)
	assert.Equal(t, 100.0, find(t, out, "squat").Performance["Mon Jan 01 2024"])
}

func TestSetPerformanceCreatesMissingEntry(t *testing.T) {
	out := SetPerformance(nil, "deadlift", "Mon Jan 01 2024", 120)
	assert.Equal(t, map[string]float64{"Mon Jan 01 2024": 120}, find(t, out, "deadlift").Performance)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	in := Entries{entry("squat", map[string]float64{"Mon Jan 01 2024": 80})}

	_, _ = Assign(in, []string{"squat"}, "Wed Jan 03 2024")
	_ = Unassign(in, []string{"squat"}, "Mon Jan 01 2024")
	_, _ = Move(in, []string{"squat"}, "Mon Jan 01 2024", "Fri Jan 05 2024")
	_ = SetPerformance(in, "squat", "Mon Jan 01 2024", 0)
	_ = RemoveExercises(in, []string{"squat"})

	assert.Equal(t, Entries{entry("squat", map[string]float64{"Mon Jan 01 2024": 80})}, in)
}

// Full lifecycle: assign carries forward, move re-derives, unassign retains.
func TestAssignMoveUnassignScenario(t *testing.T) {
	entries := Entries{entry("E", map[string]float64{"Mon Jan 01 2024": 5})}

	entries, _ = Assign(entries, []string{"E"}, "Wed Jan 03 2024")
	assert.Equal(t, 5.0, find(t, entries, "E").Performance["Wed Jan 03 2024"])

	entries, _ = Move(entries, []string{"E"}, "Wed Jan 03 2024", "Fri Jan 05 2024")
	perf := find(t, entries, "E").Performance
	assert.NotContains(t, perf, "Wed Jan 03 2024")
	assert.Equal(t, 5.0, perf["Fri Jan 05 2024"])

	entries = Unassign(entries, []string{"E"}, "Fri Jan 05 2024")
	assert.Equal(t, map[string]float64{"Mon Jan 01 2024": 5}, find(t, entries, "E").Performance)
}

// Presence-only entries survive membership add and are pruned on removal.
func TestPresenceOnlyEntryLifecycle(t *testing.T) {
	entries := AddExercises(nil, []string{"F"})
	assert.Empty(t, find(t, entries, "F").Performance)

	entries = RemoveExercises(entries, []string{"F"})
	assert.Equal(t, -1, entries.index("F"))
}
