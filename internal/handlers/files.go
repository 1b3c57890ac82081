package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// UploadFile stores a multipart upload under the configured directory and
// records its metadata. The returned url is served statically.
func UploadFile(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		respondError(ctx, http.StatusBadRequest, "file is required")
		return
	}

	userID := utils.ResolveUserID(ctx, ctx.PostForm("user_id"))

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Printf("create upload dir endpoint=%s user_id=%s err=%v", ctx.FullPath(), userID, err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	id := uuid.NewString()
	storedName := id + filepath.Ext(header.Filename)
	storedPath := filepath.Join(cfg.UploadDir, storedName)

	if err := ctx.SaveUploadedFile(header, storedPath); err != nil {
		log.Printf("save upload endpoint=%s user_id=%s err=%v", ctx.FullPath(), userID, err)
		respondError(ctx, http.StatusInternalServerError, "Internal server error")
		return
	}

	file := models.File{
		ID:           id,
		UserID:       userID,
		OriginalName: header.Filename,
		StoredName:   storedName,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Path:         storedPath,
		URL:          "/uploads/" + storedName,
	}

	if err := fileRepo().Create(ctx, &file); err != nil {
		respondAppError(ctx, userID, err)
		return
	}

	respondOK(ctx, http.StatusOK, gin.H{"file": file})
}
