package handlers

import (
	"net/http"

	"gymdash-api/types"

	"github.com/gin-gonic/gin"
)

// Health is unauthenticated and used by container healthchecks.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"status": "ok"}))
}
