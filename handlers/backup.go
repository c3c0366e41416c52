package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"gymdash-api/repository"
	"gymdash-api/types"

	"github.com/gin-gonic/gin"
)

// BackupRunner snapshots all collections and returns the snapshot's key
// prefix in the backup bucket.
type BackupRunner interface {
	Run(ctx context.Context) (string, error)
}

type BackupHandler struct {
	runner BackupRunner
	users  *repository.UsersRepository
}

func NewBackupHandler(runner BackupRunner, users *repository.UsersRepository) *BackupHandler {
	return &BackupHandler{runner: runner, users: users}
}

// TriggerBackup snapshots every collection to object storage. Superuser only.
func (h *BackupHandler) TriggerBackup(c *gin.Context) {
	current, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	if !allowed(ActionTriggerBackup, current, "") {
		forbidden(c)
		return
	}
	prefix, err := h.runner.Run(c.Request.Context())
	if err != nil {
		slog.Error("manual backup failed", "err", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "backup failed"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"prefix": prefix}))
}
