package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/internal/utils"
)

// AddAttachment links an uploaded file to a task. Both sides must exist
// at link time; validity afterwards is eventual.
func AddAttachment(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")
	taskID := ctx.Param("id")
	fileID := ctx.Param("fileId")

	if _, err := taskRepo().FindByID(ctx, taskID); err != nil {
		respondAppError(ctx, userID, err)
		return
	}
	if _, err := fileRepo().FindByID(ctx, fileID); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	if err := attachmentRepo().Add(ctx, taskID, fileID); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"message": "Attachment added"})
}

func RemoveAttachment(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	if err := attachmentRepo().Remove(ctx, ctx.Param("id"), ctx.Param("fileId")); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"message": "Attachment removed"})
}

// ListAttachments returns the files linked to a task; an empty list for a
// task with none (or one that no longer exists).
func ListAttachments(ctx *gin.Context) {
	userID := utils.ResolveUserID(ctx, "")

	files, err := attachmentRepo().ListForTask(ctx, ctx.Param("id"))
	if err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"attachments": files})
}
