package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// FileRepository records metadata for uploaded files.
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	if file.UserID == "" {
		file.UserID = models.DefaultUserID
	}

	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return queryErr("create file", err)
	}
	return nil
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.File, error) {
	var file models.File
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, queryErr("find file", err)
	}
	return &file, nil
}

// Delete removes the metadata row and any links pointing at the file. The
// bytes on disk are the caller's problem.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("file_id = ?", id).Delete(&models.TaskAttachment{}).Error; err != nil {
		return queryErr("delete file attachments", err)
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{}).Error; err != nil {
		return queryErr("delete file", err)
	}
	return nil
}
