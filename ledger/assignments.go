package ledger

import (
	"errors"

	"gymdash-api/models"
)

var (
	// ErrAlreadyAssigned is returned when an (activity, date) pair already
	// exists in the user's schedule.
	ErrAlreadyAssigned = errors.New("activity already assigned for this date")
	// ErrAssignmentNotFound is returned when the (activity, date) pair to
	// remove or move does not exist.
	ErrAssignmentNotFound = errors.New("activity assignment not found for this date")
)

// Assignments is a user's schedule: one record per (activity, date) pair.
type Assignments []models.ActivityAssignment

func (a Assignments) clone() Assignments {
	out := make(Assignments, len(a))
	copy(out, a)
	return out
}

// Contains reports whether the (activity, date) pair is present.
func (a Assignments) Contains(activityID, date string) bool {
	for _, rec := range a {
		if rec.ID == activityID && rec.Date == date {
			return true
		}
	}
	return false
}

// FindByDate returns the first assignment on the given date. The data model
// permits several activities on one date (distinct activity ids), but the
// calendar UI schedules at most one per day, so only the first record found
// is returned.
func (a Assignments) FindByDate(date string) (models.ActivityAssignment, bool) {
	for _, rec := range a {
		if rec.Date == date {
			return rec, true
		}
	}
	return models.ActivityAssignment{}, false
}

// AddAssignment appends a new (activity, date) record.
func AddAssignment(assignments Assignments, activityID, date string) (Assignments, error) {
	if assignments.Contains(activityID, date) {
		return nil, ErrAlreadyAssigned
	}
	out := assignments.clone()
	return append(out, models.ActivityAssignment{ID: activityID, Date: date}), nil
}

// RemoveAssignment deletes the (activity, date) record.
func RemoveAssignment(assignments Assignments, activityID, date string) (Assignments, error) {
	out := make(Assignments, 0, len(assignments))
	found := false
	for _, rec := range assignments {
		if rec.ID == activityID && rec.Date == date {
			found = true
			continue
		}
		out = append(out, rec)
	}
	if !found {
		return nil, ErrAssignmentNotFound
	}
	return out, nil
}

// MoveAssignment replaces the record's date, keeping its position in the
// schedule. The new (activity, date) pair must not already exist.
func MoveAssignment(assignments Assignments, activityID, oldDate, newDate string) (Assignments, error) {
	if assignments.Contains(activityID, newDate) {
		return nil, ErrAlreadyAssigned
	}
	out := assignments.clone()
	found := false
	for i := range out {
		if out[i].ID == activityID && out[i].Date == oldDate {
			out[i].Date = newDate
			found = true
			break
		}
	}
	if !found {
		return nil, ErrAssignmentNotFound
	}
	return out, nil
}
