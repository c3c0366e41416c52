package handlers

import (
	"net/http"

	"gymdash-api/models"
	"gymdash-api/repository"
	"gymdash-api/types"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct {
	items *repository.ItemsRepository
	users *repository.UsersRepository
}

func NewItemsHandler(ir *repository.ItemsRepository, ur *repository.UsersRepository) *ItemsHandler {
	return &ItemsHandler{items: ir, users: ur}
}

// GetItems lists items. Superusers see all, everyone else their own.
func (h *ItemsHandler) GetItems(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	skip, limit := parseSkipLimit(c)

	ownerID := ""
	if !current.IsSuperuser {
		ownerID = current.ID
	}
	items, count, err := h.items.List(c.Request.Context(), ownerID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(types.ListResponse[models.Item]{Data: items, Count: count}))
}

func (h *ItemsHandler) GetItem(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !current.IsSuperuser && item.OwnerID != current.ID {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(item))
}

func (h *ItemsHandler) CreateItem(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	created, err := h.items.Create(c.Request.Context(), models.Item{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     current.ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(created))
}

func (h *ItemsHandler) UpdateItem(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !current.IsSuperuser && item.OwnerID != current.ID {
		forbidden(c)
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	updated, err := h.items.Update(c.Request.Context(), *item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(updated))
}

func (h *ItemsHandler) DeleteItem(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !current.IsSuperuser && item.OwnerID != current.ID {
		forbidden(c)
		return
	}
	if err := h.items.Delete(c.Request.Context(), item.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Item deleted successfully"}))
}
