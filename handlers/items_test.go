package handlers

import (
	"net/http"
	"testing"

	"gymdash-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestItemOwnership(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "admin@gym.io", models.RoleAdmin, true)
	owner := e.createUser(t, "owner@gym.io", models.RoleUser, false)
	other := e.createUser(t, "other@gym.io", models.RoleUser, false)
	adminToken := e.login(t, admin.Email)
	ownerToken := e.login(t, owner.Email)
	otherToken := e.login(t, other.Email)

	w := e.do(t, http.MethodPost, "/items", ownerToken, gin.H{"title": "Jump rope"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.Item
	decodeData(t, w, &item)
	require.Equal(t, owner.ID, item.OwnerID)

	w = e.do(t, http.MethodGet, "/items/"+item.ID, otherToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodGet, "/items/"+item.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPatch, "/items/"+item.ID, ownerToken, gin.H{"description": "Leather"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &item)
	require.Equal(t, "Leather", item.Description)

	w = e.do(t, http.MethodDelete, "/items/"+item.ID, otherToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(t, http.MethodDelete, "/items/"+item.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteMeCascadesItems(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createUser(t, "admin@gym.io", models.RoleAdmin, true)
	owner := e.createUser(t, "owner@gym.io", models.RoleUser, false)
	ownerToken := e.login(t, owner.Email)

	w := e.do(t, http.MethodPost, "/items", ownerToken, gin.H{"title": "Gloves"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodDelete, "/users/me", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Data  []models.Item `json:"data"`
		Count int           `json:"count"`
	}
	w = e.do(t, http.MethodGet, "/items", e.login(t, admin.Email), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &list)
	require.Zero(t, list.Count)
}
