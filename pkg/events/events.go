package events

// Schedule event types pushed to a user's connected clients so calendar and
// progress views can refresh without polling.
const (
	TypeActivityAssigned   = "activity_assigned"
	TypeActivityUnassigned = "activity_unassigned"
	TypeActivityMoved      = "activity_moved"
	TypePerformanceUpdated = "performance_updated"
)

// ScheduleChanged is emitted when an activity is assigned to, removed from,
// or moved between calendar dates. OldDate is set only for moves.
type ScheduleChanged struct {
	Type       string `json:"type"`
	ActivityID string `json:"activityId"`
	Date       string `json:"date"`
	OldDate    string `json:"oldDate,omitempty"`
}

// PerformanceUpdated is emitted when a performance value is written
// directly for an exercise and date.
type PerformanceUpdated struct {
	Type       string  `json:"type"`
	ExerciseID string  `json:"exerciseId"`
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
}
