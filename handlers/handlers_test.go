package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymdash-api/models"
	"gymdash-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	store      *repository.MemoryStore
	users      *repository.UsersRepository
	exercises  *repository.ExercisesRepository
	activities *repository.ActivitiesRepository
	items      *repository.ItemsRepository
	router     *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	usersRepo := repository.NewUsersRepository(store)
	exercisesRepo := repository.NewExercisesRepository(store)
	activitiesRepo := repository.NewActivitiesRepository(store)
	itemsRepo := repository.NewItemsRepository(store)

	authHandler := NewAuthHandler(usersRepo, testJWTSecret)
	usersHandler := NewUsersHandler(usersRepo, itemsRepo)
	exercisesHandler := NewExercisesHandler(exercisesRepo, usersRepo)
	activitiesHandler := NewActivitiesHandler(activitiesRepo, exercisesRepo, usersRepo)
	itemsHandler := NewItemsHandler(itemsRepo, usersRepo)

	r := gin.New()
	r.POST("/login", authHandler.Login)

	auth := r.Group("/", AuthMiddleware(testJWTSecret))
	{
		auth.GET("/users", usersHandler.GetUsers)
		auth.POST("/users", usersHandler.CreateUser)
		auth.GET("/users/me", usersHandler.GetMe)
		auth.PATCH("/users/me", usersHandler.UpdateMe)
		auth.PATCH("/users/me/password", usersHandler.UpdatePasswordMe)
		auth.DELETE("/users/me", usersHandler.DeleteMe)
		auth.GET("/users/:id", usersHandler.GetUserByID)
		auth.PATCH("/users/:id", usersHandler.UpdateUser)
		auth.DELETE("/users/:id", usersHandler.DeleteUser)
		auth.PATCH("/users/me/exercise-performance", usersHandler.UpdateExercisePerformance)

		auth.GET("/exercises", exercisesHandler.GetExercises)
		auth.POST("/exercises", exercisesHandler.CreateExercise)
		auth.GET("/exercises/:id", exercisesHandler.GetExercise)
		auth.PATCH("/exercises/:id", exercisesHandler.UpdateExercise)
		auth.DELETE("/exercises/:id", exercisesHandler.DeleteExercise)

		auth.GET("/activities", activitiesHandler.GetActivities)
		auth.POST("/activities", activitiesHandler.CreateActivity)
		auth.GET("/activities/exercises/:userId/:date", activitiesHandler.GetExercisesForDay)
		auth.GET("/activities/:id", activitiesHandler.GetActivity)
		auth.PATCH("/activities/:id", activitiesHandler.UpdateActivity)
		auth.DELETE("/activities/:id", activitiesHandler.DeleteActivity)
		auth.POST("/activities/:id/exercises/:exerciseId", activitiesHandler.AddExerciseToActivity)
		auth.DELETE("/activities/:id/exercises/:exerciseId", activitiesHandler.RemoveExerciseFromActivity)
		auth.POST("/activities/assign/:id", activitiesHandler.AssignActivity)
		auth.DELETE("/activities/unassign/:id", activitiesHandler.UnassignActivity)
		auth.PUT("/activities/assign/:id", activitiesHandler.MoveActivityAssignment)

		auth.GET("/items", itemsHandler.GetItems)
		auth.POST("/items", itemsHandler.CreateItem)
		auth.GET("/items/:id", itemsHandler.GetItem)
		auth.PATCH("/items/:id", itemsHandler.UpdateItem)
		auth.DELETE("/items/:id", itemsHandler.DeleteItem)
	}

	return &testEnv{
		store:      store,
		users:      usersRepo,
		exercises:  exercisesRepo,
		activities: activitiesRepo,
		items:      itemsRepo,
		router:     r,
	}
}

const testPassword = "secret123"

func (e *testEnv) createUser(t *testing.T, email string, role models.Role, superuser bool) *models.User {
	t.Helper()
	hashed, err := HashPassword(testPassword)
	require.NoError(t, err)
	u, err := e.users.Create(context.Background(), models.User{
		Email:          email,
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
		IsSuperuser:    superuser,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/login", "", gin.H{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}
