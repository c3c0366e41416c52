package handlers

import (
	"errors"
	"net/http"

	"gymdash-api/ledger"
	"gymdash-api/repository"
	"gymdash-api/types"

	"github.com/gin-gonic/gin"
)

// respondError maps repository and ledger errors onto the response envelope.
// Version conflicts surface as 409 after the retry loop is exhausted.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Resource not found"))
	case errors.Is(err, ledger.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, err.Error()))
	case errors.Is(err, ledger.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, err.Error()))
	case errors.Is(err, repository.ErrVersionConflict):
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Concurrent update, please retry"))
	default:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
	}
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Not enough privileges"))
}
