package handlers

import (
	"net/http"

	"gymdash-api/models"
	"gymdash-api/repository"
	"gymdash-api/types"

	"github.com/gin-gonic/gin"
)

type ExercisesHandler struct {
	exercises *repository.ExercisesRepository
	users     *repository.UsersRepository
}

func NewExercisesHandler(er *repository.ExercisesRepository, ur *repository.UsersRepository) *ExercisesHandler {
	return &ExercisesHandler{exercises: er, users: ur}
}

// GetExercises lists active exercises. Superusers and trainers see the whole
// catalog; everyone else sees their own.
func (h *ExercisesHandler) GetExercises(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	skip, limit := parseSkipLimit(c)

	ownerID := ""
	if !current.CanManageOthers() {
		ownerID = current.ID
	}
	exercises, count, err := h.exercises.ListActive(c.Request.Context(), ownerID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(types.ListResponse[models.Exercise]{Data: exercises, Count: count}))
}

// GetExercise returns one exercise. Inactive ones read as not found.
func (h *ExercisesHandler) GetExercise(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	exercise, err := h.exercises.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !exercise.IsActive {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Exercise not found"))
		return
	}
	if !allowed(ActionViewUserData, current, exercise.OwnerID) {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(exercise))
}

type exerciseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MuscleGroup string `json:"muscle_group"`
	Difficulty  string `json:"difficulty"`
	Duration    *int   `json:"duration"`
	ImageURL    string `json:"image_url"`
	VideoURL    string `json:"video_url"`
	OwnerID     string `json:"owner_id"`
}

// CreateExercise creates a catalog entry. Trainers and superusers may set an
// explicit owner; everyone else owns what they create.
func (h *ExercisesHandler) CreateExercise(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var req exerciseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	ownerID := current.ID
	if req.OwnerID != "" && current.CanManageOthers() {
		ownerID = req.OwnerID
	}
	created, err := h.exercises.Create(c.Request.Context(), models.Exercise{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		MuscleGroup: req.MuscleGroup,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		OwnerID:     ownerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(created))
}

type exerciseUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	MuscleGroup *string `json:"muscle_group"`
	Difficulty  *string `json:"difficulty"`
	Duration    *int    `json:"duration"`
	ImageURL    *string `json:"image_url"`
	VideoURL    *string `json:"video_url"`
}

// UpdateExercise applies a partial update. Owner, trainer or superuser.
func (h *ExercisesHandler) UpdateExercise(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	exercise, err := h.exercises.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !exercise.IsActive {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Exercise not found"))
		return
	}
	if !allowed(ActionManageActivities, current, exercise.OwnerID) {
		forbidden(c)
		return
	}
	var req exerciseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Title != nil {
		exercise.Title = *req.Title
	}
	if req.Description != nil {
		exercise.Description = *req.Description
	}
	if req.Category != nil {
		exercise.Category = *req.Category
	}
	if req.MuscleGroup != nil {
		exercise.MuscleGroup = *req.MuscleGroup
	}
	if req.Difficulty != nil {
		exercise.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		exercise.Duration = req.Duration
	}
	if req.ImageURL != nil {
		exercise.ImageURL = *req.ImageURL
	}
	if req.VideoURL != nil {
		exercise.VideoURL = *req.VideoURL
	}
	updated, err := h.exercises.Update(c.Request.Context(), *exercise)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated))
}

// DeleteExercise soft-deletes the exercise. Any ledger history that
// references it is left intact; activity templates keep the id and the day
// view skips inactive exercises.
func (h *ExercisesHandler) DeleteExercise(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	exercise, err := h.exercises.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed(ActionManageActivities, current, exercise.OwnerID) {
		forbidden(c)
		return
	}
	if err := h.exercises.Deactivate(c.Request.Context(), exercise.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Exercise deleted successfully"}))
}
