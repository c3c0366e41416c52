package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gymdash-api/ledger"
	"gymdash-api/models"
	"gymdash-api/observability"
	"gymdash-api/pkg/events"
	"gymdash-api/pkg/notify"
	"gymdash-api/repository"
	"gymdash-api/types"

	"github.com/gin-gonic/gin"
)

type ActivitiesHandler struct {
	activities *repository.ActivitiesRepository
	exercises  *repository.ExercisesRepository
	users      *repository.UsersRepository
	notifier   notify.Notifier
}

func NewActivitiesHandler(
	ar *repository.ActivitiesRepository,
	er *repository.ExercisesRepository,
	ur *repository.UsersRepository,
) *ActivitiesHandler {
	return &ActivitiesHandler{activities: ar, exercises: er, users: ur, notifier: notify.NopNotifier{}}
}

func (h *ActivitiesHandler) WithNotifier(n notify.Notifier) *ActivitiesHandler {
	h.notifier = n
	return h
}

// dedupe keeps the first occurrence of each exercise id, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// validDate rejects request dates that do not use the ledger layout. Stored
// history is more forgiving (see ledger.sortedDates), but new input is not.
func validDate(c *gin.Context, date string) bool {
	if _, err := ledger.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "date must use format "+ledger.DateLayout))
		return false
	}
	return true
}

func logDateWarnings(op, userID string, warnings []string) {
	observability.RecordMalformedDates(len(warnings))
	for _, key := range warnings {
		slog.Warn("malformed performance date key", "op", op, "userId", userID, "key", key)
	}
}

// GetActivities lists activities. With ?user_id= the caller must be that
// user, a trainer or a superuser; otherwise superusers see everything and
// everyone else their own.
func (h *ActivitiesHandler) GetActivities(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	skip, limit := parseSkipLimit(c)

	filterUserID := c.Query("user_id")
	switch {
	case filterUserID != "":
		if !allowed(ActionViewUserData, current, filterUserID) {
			forbidden(c)
			return
		}
	case current.IsSuperuser:
		// no filter: all activities
	default:
		filterUserID = current.ID
	}

	activities, count, err := h.activities.List(c.Request.Context(), filterUserID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(types.ListResponse[models.Activity]{Data: activities, Count: count}))
}

// GetActivity returns one activity. Owner or superuser.
func (h *ActivitiesHandler) GetActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed(ActionViewUserData, current, activity.UserID) {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(activity))
}

type activityCreateRequest struct {
	Title     string   `json:"title" binding:"required"`
	UserID    string   `json:"user_id" binding:"required"`
	Exercises []string `json:"exercises"`
}

// CreateActivity creates a workout template and seeds presence-only ledger
// entries for its exercises on the owner's document. Trainer or superuser.
func (h *ActivitiesHandler) CreateActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !current.CanManageOthers() {
		forbidden(c)
		return
	}
	var req activityCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	created, err := h.activities.Create(c.Request.Context(), models.Activity{
		Title:     req.Title,
		UserID:    req.UserID,
		Exercises: dedupe(req.Exercises),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.seedLedgerPresence(c, created.UserID, created.Exercises)
	c.JSON(http.StatusCreated, types.NewSuccessResponse(created))
}

// seedLedgerPresence ensures ledger entries exist for the exercises on the
// owner's document. A missing owner is tolerated: the template may be
// prepared before the client account exists.
func (h *ActivitiesHandler) seedLedgerPresence(c *gin.Context, ownerID string, exerciseIDs []string) {
	if len(exerciseIDs) == 0 {
		return
	}
	_, err := h.users.Update(c.Request.Context(), ownerID, func(u *models.User) error {
		u.Exercises = ledger.AddExercises(u.Exercises, exerciseIDs)
		return nil
	})
	observability.RecordLedgerOp("add_exercises", err)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("failed to seed ledger entries", "ownerId", ownerID, "err", err)
	}
}

// cleanupLedger removes empty ledger entries for the exercises from the
// owner's document, honoring the retention rule.
func (h *ActivitiesHandler) cleanupLedger(c *gin.Context, ownerID string, exerciseIDs []string) {
	if len(exerciseIDs) == 0 {
		return
	}
	_, err := h.users.Update(c.Request.Context(), ownerID, func(u *models.User) error {
		u.Exercises = ledger.RemoveExercises(u.Exercises, exerciseIDs)
		return nil
	})
	observability.RecordLedgerOp("remove_exercises", err)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("failed to clean up ledger entries", "ownerId", ownerID, "err", err)
	}
}

type activityUpdateRequest struct {
	Title     *string   `json:"title"`
	Exercises *[]string `json:"exercises"`
}

// UpdateActivity updates title and exercise list. Trainer or superuser.
// The ledger is not reconciled here; membership changes that must touch the
// ledger go through the dedicated add/remove endpoints.
func (h *ActivitiesHandler) UpdateActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !current.CanManageOthers() {
		forbidden(c)
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req activityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Exercises != nil {
		activity.Exercises = dedupe(*req.Exercises)
	}
	updated, err := h.activities.Update(c.Request.Context(), *activity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated))
}

// DeleteActivity removes the template. Ledger cleanup happens before the
// document delete: afterwards the exercise list would be unrecoverable.
// Recorded performance survives per the retention rule.
func (h *ActivitiesHandler) DeleteActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !current.CanManageOthers() {
		forbidden(c)
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.cleanupLedger(c, activity.UserID, activity.Exercises)
	if err := h.activities.Delete(c.Request.Context(), activity.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Activity deleted successfully"}))
}

// AddExerciseToActivity appends an exercise to the template and seeds its
// ledger presence. Idempotent: re-adding is a no-op on both the list and
// the ledger. Trainer or superuser.
func (h *ActivitiesHandler) AddExerciseToActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !current.CanManageOthers() {
		forbidden(c)
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	exerciseID := c.Param("exerciseId")
	if _, err := h.exercises.GetByID(c.Request.Context(), exerciseID); err != nil {
		respondError(c, err)
		return
	}
	if !activity.HasExercise(exerciseID) {
		activity.Exercises = append(activity.Exercises, exerciseID)
		if activity, err = h.activities.Update(c.Request.Context(), *activity); err != nil {
			respondError(c, err)
			return
		}
		h.seedLedgerPresence(c, activity.UserID, []string{exerciseID})
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(activity))
}

// RemoveExerciseFromActivity drops an exercise from the template. The ledger
// entry is removed only when it has no recorded performance.
func (h *ActivitiesHandler) RemoveExerciseFromActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !current.CanManageOthers() {
		forbidden(c)
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	exerciseID := c.Param("exerciseId")
	if activity.HasExercise(exerciseID) {
		kept := make([]string, 0, len(activity.Exercises)-1)
		for _, id := range activity.Exercises {
			if id != exerciseID {
				kept = append(kept, id)
			}
		}
		activity.Exercises = kept
		if activity, err = h.activities.Update(c.Request.Context(), *activity); err != nil {
			respondError(c, err)
			return
		}
		h.cleanupLedger(c, activity.UserID, []string{exerciseID})
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(activity))
}

// AssignActivity schedules an activity on the authenticated user's calendar
// and carries each exercise's latest performance forward to the new date.
func (h *ActivitiesHandler) AssignActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	date := c.Query("date")
	if !validDate(c, date) {
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed(ActionManageActivities, current, activity.UserID) {
		forbidden(c)
		return
	}
	_, err = h.users.Update(c.Request.Context(), current.ID, func(u *models.User) error {
		assignments, err := ledger.AddAssignment(u.Activities, activity.ID, date)
		if err != nil {
			return err
		}
		entries, warnings := ledger.Assign(u.Exercises, activity.Exercises, date)
		logDateWarnings("assign", u.ID, warnings)
		u.Activities = assignments
		u.Exercises = entries
		return nil
	})
	observability.RecordLedgerOp("assign", err)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.NotifyUser(current.ID, events.ScheduleChanged{
		Type:       events.TypeActivityAssigned,
		ActivityID: activity.ID,
		Date:       date,
	})
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Activity assigned to " + date + " successfully"}))
}

// UnassignActivity removes a scheduled date. Each exercise loses its value
// for that date; entries left with no history are pruned.
func (h *ActivitiesHandler) UnassignActivity(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	date := c.Query("date")
	if !validDate(c, date) {
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed(ActionManageActivities, current, activity.UserID) {
		forbidden(c)
		return
	}
	_, err = h.users.Update(c.Request.Context(), current.ID, func(u *models.User) error {
		assignments, err := ledger.RemoveAssignment(u.Activities, activity.ID, date)
		if err != nil {
			return err
		}
		u.Activities = assignments
		u.Exercises = ledger.Unassign(u.Exercises, activity.Exercises, date)
		return nil
	})
	observability.RecordLedgerOp("unassign", err)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.NotifyUser(current.ID, events.ScheduleChanged{
		Type:       events.TypeActivityUnassigned,
		ActivityID: activity.ID,
		Date:       date,
	})
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Activity unassigned from " + date + " successfully"}))
}

// MoveActivityAssignment re-dates a scheduled activity. Not a rename: each
// exercise's value at the old date is discarded and the new date is seeded
// from the remaining history.
func (h *ActivitiesHandler) MoveActivityAssignment(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	oldDate := c.Query("old_date")
	newDate := c.Query("new_date")
	if !validDate(c, oldDate) || !validDate(c, newDate) {
		return
	}
	activity, err := h.activities.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed(ActionManageActivities, current, activity.UserID) {
		forbidden(c)
		return
	}
	_, err = h.users.Update(c.Request.Context(), current.ID, func(u *models.User) error {
		assignments, err := ledger.MoveAssignment(u.Activities, activity.ID, oldDate, newDate)
		if err != nil {
			return err
		}
		entries, warnings := ledger.Move(u.Exercises, activity.Exercises, oldDate, newDate)
		logDateWarnings("move", u.ID, warnings)
		u.Activities = assignments
		u.Exercises = entries
		return nil
	})
	observability.RecordLedgerOp("move", err)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.NotifyUser(current.ID, events.ScheduleChanged{
		Type:       events.TypeActivityMoved,
		ActivityID: activity.ID,
		Date:       newDate,
		OldDate:    oldDate,
	})
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Activity assignment updated from " + oldDate + " to " + newDate + " successfully"}))
}

type dayLookupActivity struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID string `json:"user_id"`
}

type dayLookupResponse struct {
	Date           string             `json:"date"`
	Activity       *dayLookupActivity `json:"activity"`
	Exercises      []models.Exercise  `json:"exercises"`
	ExercisesCount int                `json:"exercises_count"`
	Message        string             `json:"message,omitempty"`
}

// GetExercisesForDay resolves the activity scheduled on a user's date and
// returns its exercise documents. The schedule may in principle hold several
// activities on one date; only the first match is returned, which is what
// the single-activity-per-day calendar expects. Missing exercise documents
// are skipped; a missing activity document is an error.
func (h *ActivitiesHandler) GetExercisesForDay(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	userID := c.Param("userId")
	date := c.Param("date")
	if !allowed(ActionViewUserData, current, userID) {
		forbidden(c)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	assignment, found := ledger.Assignments(user.Activities).FindByDate(date)
	if !found {
		c.JSON(http.StatusOK, types.NewSuccessResponse(dayLookupResponse{
			Date:      date,
			Exercises: []models.Exercise{},
			Message:   "No activity assigned for this date",
		}))
		return
	}

	activity, err := h.activities.GetByID(c.Request.Context(), assignment.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Assigned activity not found"))
			return
		}
		respondError(c, err)
		return
	}

	exercises := make([]models.Exercise, 0, len(activity.Exercises))
	for _, exerciseID := range activity.Exercises {
		exercise, err := h.exercises.GetByID(c.Request.Context(), exerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Stale reference; the day view shows what still exists.
				continue
			}
			respondError(c, err)
			return
		}
		if !exercise.IsActive {
			continue
		}
		exercises = append(exercises, *exercise)
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(dayLookupResponse{
		Date: date,
		Activity: &dayLookupActivity{
			ID:     activity.ID,
			Title:  activity.Title,
			UserID: activity.UserID,
		},
		Exercises:      exercises,
		ExercisesCount: len(exercises),
	}))
}
