package handlers

import (
	"net/http"
	"testing"

	"gymdash-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "client@gym.io", models.RoleUser, false)

	w := e.do(t, http.MethodPost, "/login", "", gin.H{"email": "client@gym.io", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/login", "", gin.H{"email": "client@gym.io", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/login", "", gin.H{"email": "nobody@gym.io", "password": testPassword})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "admin@gym.io", models.RoleAdmin, true)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	adminToken := e.login(t, admin.Email)

	inactive := false
	w := e.do(t, http.MethodPatch, "/users/"+client.ID, adminToken, gin.H{"is_active": inactive})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/login", "", gin.H{"email": client.Email, "password": testPassword})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/users/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMeHidesCredentials(t *testing.T) {
	e := newTestEnv(t)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	token := e.login(t, client.Email)

	w := e.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "hashed_password")

	var me models.UserPublic
	decodeData(t, w, &me)
	require.Equal(t, client.ID, me.ID)
	require.NotNil(t, me.Exercises)
	require.NotNil(t, me.Activities)
}

func TestUserListRequiresElevatedRole(t *testing.T) {
	e := newTestEnv(t)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	trainer := e.createUser(t, "trainer@gym.io", models.RoleTrainer, false)

	w := e.do(t, http.MethodGet, "/users", e.login(t, client.Email), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodGet, "/users", e.login(t, trainer.Email), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "admin@gym.io", models.RoleAdmin, true)
	token := e.login(t, admin.Email)

	body := gin.H{"email": "new@gym.io", "password": "password123"}
	w := e.do(t, http.MethodPost, "/users", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/users", token, body)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdatePassword(t *testing.T) {
	e := newTestEnv(t)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	token := e.login(t, client.Email)

	w := e.do(t, http.MethodPatch, "/users/me/password", token, gin.H{
		"current_password": "wrong",
		"new_password":     "anotherpass1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPatch, "/users/me/password", token, gin.H{
		"current_password": testPassword,
		"new_password":     testPassword,
	})
	require.Equal(t, http.StatusBadRequest, w.Code, "new password must differ")

	w = e.do(t, http.MethodPatch, "/users/me/password", token, gin.H{
		"current_password": testPassword,
		"new_password":     "anotherpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/login", "", gin.H{"email": client.Email, "password": "anotherpass1"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteMe(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "admin@gym.io", models.RoleAdmin, true)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	clientToken := e.login(t, client.Email)

	// Superusers cannot remove themselves.
	w := e.do(t, http.MethodDelete, "/users/me", e.login(t, admin.Email), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodDelete, "/users/me", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/users/me", clientToken, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPerformanceUpdateValidation(t *testing.T) {
	e := newTestEnv(t)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	token := e.login(t, client.Email)

	w := e.do(t, http.MethodPatch, "/users/me/exercise-performance", token, gin.H{
		"exercise_id": "ex-1",
		"date":        "2026-01-06",
		"performance": 10,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPatch, "/users/me/exercise-performance", token, gin.H{
		"exercise_id": "ex-1",
		"date":        day1,
		"performance": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Overwrite is unconditional.
	w = e.do(t, http.MethodPatch, "/users/me/exercise-performance", token, gin.H{
		"exercise_id": "ex-1",
		"date":        day1,
		"performance": 7.5,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]float64{day1: 7.5}, performanceOf(t, fetchMe(t, e, token), "ex-1"))
}
