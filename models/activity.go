package models

// Activity is a named workout template owned by one user: an ordered set of
// exercise ids with no duplicates. Deleting an activity never deletes ledger
// history for its exercises (see ledger.RemoveExercises).
type Activity struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	UserID    string   `json:"user_id"`
	Exercises []string `json:"exercises"`
}

// HasExercise reports whether the exercise is already in the template.
func (a *Activity) HasExercise(exerciseID string) bool {
	for _, id := range a.Exercises {
		if id == exerciseID {
			return true
		}
	}
	return false
}
