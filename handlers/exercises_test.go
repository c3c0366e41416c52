package handlers

import (
	"net/http"
	"testing"

	"gymdash-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestExerciseSoftDelete(t *testing.T) {
	e := newTestEnv(t)
	trainer := e.createUser(t, "trainer@gym.io", models.RoleTrainer, false)
	token := e.login(t, trainer.Email)

	w := e.do(t, http.MethodPost, "/exercises", token, gin.H{
		"title":    "Lunges",
		"category": models.CategoryStrength,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var ex models.Exercise
	decodeData(t, w, &ex)
	require.True(t, ex.IsActive)
	require.Equal(t, trainer.ID, ex.OwnerID)

	w = e.do(t, http.MethodDelete, "/exercises/"+ex.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Gone from reads, still present as a document.
	w = e.do(t, http.MethodGet, "/exercises/"+ex.ID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var list struct {
		Data  []models.Exercise `json:"data"`
		Count int               `json:"count"`
	}
	w = e.do(t, http.MethodGet, "/exercises", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &list)
	require.Zero(t, list.Count)
}

func TestExerciseListScoping(t *testing.T) {
	e := newTestEnv(t)
	trainer := e.createUser(t, "trainer@gym.io", models.RoleTrainer, false)
	client := e.createUser(t, "client@gym.io", models.RoleUser, false)
	trainerToken := e.login(t, trainer.Email)
	clientToken := e.login(t, client.Email)

	w := e.do(t, http.MethodPost, "/exercises", trainerToken, gin.H{"title": "Shared"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(t, http.MethodPost, "/exercises", clientToken, gin.H{"title": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)

	var list struct {
		Data  []models.Exercise `json:"data"`
		Count int               `json:"count"`
	}
	w = e.do(t, http.MethodGet, "/exercises", trainerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &list)
	require.Equal(t, 2, list.Count, "trainers see the whole catalog")

	w = e.do(t, http.MethodGet, "/exercises", clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &list)
	require.Equal(t, 1, list.Count)
	require.Equal(t, "Mine", list.Data[0].Title)
}

func TestExercisePartialUpdate(t *testing.T) {
	e := newTestEnv(t)
	trainer := e.createUser(t, "trainer@gym.io", models.RoleTrainer, false)
	token := e.login(t, trainer.Email)

	w := e.do(t, http.MethodPost, "/exercises", token, gin.H{
		"title":       "Bench",
		"description": "Barbell",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var ex models.Exercise
	decodeData(t, w, &ex)

	w = e.do(t, http.MethodPatch, "/exercises/"+ex.ID, token, gin.H{"difficulty": "advanced"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &ex)
	require.Equal(t, "advanced", ex.Difficulty)
	require.Equal(t, "Bench", ex.Title)
	require.Equal(t, "Barbell", ex.Description)
}
