package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gymdash-api/ledger"
	"gymdash-api/models"
	"gymdash-api/observability"
	"gymdash-api/pkg/events"
	"gymdash-api/pkg/notify"
	"gymdash-api/repository"
	"gymdash-api/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	users    *repository.UsersRepository
	items    *repository.ItemsRepository
	notifier notify.Notifier
}

func NewUsersHandler(users *repository.UsersRepository, items *repository.ItemsRepository) *UsersHandler {
	return &UsersHandler{users: users, items: items, notifier: notify.NopNotifier{}}
}

func (h *UsersHandler) WithNotifier(n notify.Notifier) *UsersHandler {
	h.notifier = n
	return h
}

func parseSkipLimit(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}

// GetUsers lists users. Trainer or superuser only.
func (h *UsersHandler) GetUsers(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !allowed(ActionListUsers, current, "") {
		forbidden(c)
		return
	}
	skip, limit := parseSkipLimit(c)
	users, count, err := h.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	publics := make([]models.UserPublic, 0, len(users))
	for i := range users {
		publics = append(publics, users[i].Public())
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(types.ListResponse[models.UserPublic]{Data: publics, Count: count}))
}

type userCreateRequest struct {
	Email        string      `json:"email" binding:"required,email"`
	Password     string      `json:"password" binding:"required,min=8"`
	FullName     string      `json:"full_name"`
	MobileNumber string      `json:"mobile_number"`
	DateOfBirth  string      `json:"date_of_birth"`
	Weight       *float64    `json:"weight"`
	Height       *float64    `json:"height"`
	Notes        string      `json:"notes"`
	Sex          string      `json:"sex"`
	Role         models.Role `json:"role"`
	IsSuperuser  bool        `json:"is_superuser"`
}

// CreateUser provisions a new account. Trainer or superuser only.
func (h *UsersHandler) CreateUser(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !allowed(ActionCreateUser, current, "") {
		forbidden(c)
		return
	}
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if _, err := h.users.GetByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "User with this email already exists"))
		return
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user, err := h.users.Create(c.Request.Context(), models.User{
		Email:          req.Email,
		FullName:       req.FullName,
		MobileNumber:   req.MobileNumber,
		DateOfBirth:    req.DateOfBirth,
		Weight:         req.Weight,
		Height:         req.Height,
		Notes:          req.Notes,
		Sex:            req.Sex,
		Role:           role,
		IsActive:       true,
		IsSuperuser:    req.IsSuperuser,
		HashedPassword: hash,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(user.Public()))
}

// GetMe returns the authenticated user.
func (h *UsersHandler) GetMe(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(current.Public()))
}

type userUpdateMeRequest struct {
	Email        *string  `json:"email"`
	FullName     *string  `json:"full_name"`
	MobileNumber *string  `json:"mobile_number"`
	DateOfBirth  *string  `json:"date_of_birth"`
	Weight       *float64 `json:"weight"`
	Height       *float64 `json:"height"`
	Notes        *string  `json:"notes"`
	Sex          *string  `json:"sex"`
}

func applyProfileUpdate(u *models.User, req *userUpdateMeRequest) {
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.MobileNumber != nil {
		u.MobileNumber = *req.MobileNumber
	}
	if req.DateOfBirth != nil {
		u.DateOfBirth = *req.DateOfBirth
	}
	if req.Weight != nil {
		u.Weight = req.Weight
	}
	if req.Height != nil {
		u.Height = req.Height
	}
	if req.Notes != nil {
		u.Notes = *req.Notes
	}
	if req.Sex != nil {
		u.Sex = *req.Sex
	}
}

// UpdateMe updates the authenticated user's own profile.
func (h *UsersHandler) UpdateMe(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var req userUpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, current.Email) {
		if existing, err := h.users.GetByEmail(c.Request.Context(), *req.Email); err == nil && existing.ID != current.ID {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "User with this email already exists"))
			return
		}
	}
	updated, err := h.users.Update(c.Request.Context(), current.ID, func(u *models.User) error {
		applyProfileUpdate(u, &req)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated.Public()))
}

// UpdatePasswordMe changes the authenticated user's password after
// verifying the current one.
func (h *UsersHandler) UpdatePasswordMe(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.HashedPassword), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Incorrect password"))
		return
	}
	if req.CurrentPassword == req.NewPassword {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "New password cannot be the same as the current one"))
		return
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.users.Update(c.Request.Context(), current.ID, func(u *models.User) error {
		u.HashedPassword = hash
		return nil
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Password updated successfully"}))
}

// DeleteMe deletes the authenticated user's account and their items.
// Superusers cannot delete themselves.
func (h *UsersHandler) DeleteMe(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if current.IsSuperuser {
		c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Super users are not allowed to delete themselves"))
		return
	}
	if err := h.items.DeleteByOwner(c.Request.Context(), current.ID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), current.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "User deleted successfully"}))
}

// GetUserByID returns a user: self, trainer or superuser.
func (h *UsersHandler) GetUserByID(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	userID := c.Param("id")
	if !allowed(ActionReadUser, current, userID) {
		forbidden(c)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(user.Public()))
}

type userUpdateRequest struct {
	userUpdateMeRequest
	Password    *string      `json:"password"`
	IsActive    *bool        `json:"is_active"`
	IsSuperuser *bool        `json:"is_superuser"`
	Role        *models.Role `json:"role"`
}

// UpdateUser updates any user. Superuser only.
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !allowed(ActionUpdateAnyUser, current, "") {
		forbidden(c)
		return
	}
	userID := c.Param("id")
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Email != nil {
		if existing, err := h.users.GetByEmail(c.Request.Context(), *req.Email); err == nil && existing.ID != userID {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "User with this email already exists"))
			return
		}
	}
	var hash string
	if req.Password != nil {
		var err error
		if hash, err = HashPassword(*req.Password); err != nil {
			respondError(c, err)
			return
		}
	}
	updated, err := h.users.Update(c.Request.Context(), userID, func(u *models.User) error {
		applyProfileUpdate(u, &req.userUpdateMeRequest)
		if hash != "" {
			u.HashedPassword = hash
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.IsSuperuser != nil {
			u.IsSuperuser = *req.IsSuperuser
		}
		if req.Role != nil {
			u.Role = *req.Role
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated.Public()))
}

// DeleteUser deletes any user and their items. Superuser only, and never
// themselves.
func (h *UsersHandler) DeleteUser(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !allowed(ActionDeleteAnyUser, current, "") {
		forbidden(c)
		return
	}
	userID := c.Param("id")
	if userID == current.ID {
		c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Super users are not allowed to delete themselves"))
		return
	}
	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.items.DeleteByOwner(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "User deleted successfully"}))
}

// UpdateExercisePerformance records a user-entered measurement for one
// exercise and date. The value is authoritative and bypasses carry-forward.
func (h *UsersHandler) UpdateExercisePerformance(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var req struct {
		ExerciseID  string  `json:"exercise_id" binding:"required"`
		Date        string  `json:"date" binding:"required"`
		Performance float64 `json:"performance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if _, err := ledger.ParseDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "date must use format "+ledger.DateLayout))
		return
	}
	_, err := h.users.Update(c.Request.Context(), current.ID, func(u *models.User) error {
		u.Exercises = ledger.SetPerformance(u.Exercises, req.ExerciseID, req.Date, req.Performance)
		return nil
	})
	observability.RecordLedgerOp("set_performance", err)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.NotifyUser(current.ID, events.PerformanceUpdated{
		Type:       events.TypePerformanceUpdated,
		ExerciseID: req.ExerciseID,
		Date:       req.Date,
		Value:      req.Performance,
	})
	slog.Info("performance updated", "userId", current.ID, "exerciseId", req.ExerciseID, "date", req.Date)
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Exercise performance updated successfully for " + req.Date}))
}
