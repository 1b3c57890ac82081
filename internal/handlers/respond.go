package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/apperrors"
	"github.com/taskboard-dev/taskboard/internal/config"
	"github.com/taskboard-dev/taskboard/internal/repository"
)

// cfg is set once by Configure before the router starts serving.
var cfg config.Config

func Configure(c config.Config) {
	cfg = c
}

// Repositories are cheap stateless wrappers around the shared handle, so
// handlers build them per call instead of holding globals.
func taskRepo() *repository.TaskRepository {
	return repository.NewTaskRepository(db.DB)
}

func eventRepo() *repository.EventRepository {
	return repository.NewEventRepository(db.DB)
}

func userRepo() *repository.UserRepository {
	return repository.NewUserRepository(db.DB)
}

func fileRepo() *repository.FileRepository {
	return repository.NewFileRepository(db.DB)
}

func attachmentRepo() *repository.AttachmentRepository {
	return repository.NewAttachmentRepository(db.DB)
}

func respondOK(ctx *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = true
	ctx.JSON(status, payload)
}

func respondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": false, "error": message})
}

// respondAppError maps a repository error onto the wire. Query failures
// are logged with their detail but never shown to the client.
func respondAppError(ctx *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		respondError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(ctx, http.StatusNotFound, "Not found")
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondError(ctx, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, apperrors.ErrConflict):
		respondError(ctx, http.StatusConflict, "Conflict")
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		log.Printf("storage unavailable endpoint=%s user_id=%s err=%v", ctx.FullPath(), userID, err)
		respondError(ctx, http.StatusServiceUnavailable, "Database unavailable")
	default:
		log.Printf("request failed endpoint=%s user_id=%s err=%v", ctx.FullPath(), userID, err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
	}
}
