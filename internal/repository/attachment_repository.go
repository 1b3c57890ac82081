package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskboard-dev/taskboard/internal/models"
)

// AttachmentRepository manages the task↔file link table.
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Add links a file to a task. Linking twice is a no-op.
func (r *AttachmentRepository) Add(ctx context.Context, taskID, fileID string) error {
	link := models.TaskAttachment{TaskID: taskID, FileID: fileID}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return queryErr("add attachment", err)
	}
	return nil
}

// Remove unlinks a file from a task. Removing an absent link is a no-op.
func (r *AttachmentRepository) Remove(ctx context.Context, taskID, fileID string) error {
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND file_id = ?", taskID, fileID).
		Delete(&models.TaskAttachment{}).Error
	if err != nil {
		return queryErr("remove attachment", err)
	}
	return nil
}

// ListForTask returns the files linked to a task, oldest link first.
func (r *AttachmentRepository) ListForTask(ctx context.Context, taskID string) ([]models.File, error) {
	var links []models.TaskAttachment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&links).Error
	if err != nil {
		return nil, queryErr("list attachments", err)
	}

	files := []models.File{}
	if len(links) == 0 {
		return files, nil
	}

	fileIDs := make([]string, 0, len(links))
	for _, l := range links {
		fileIDs = append(fileIDs, l.FileID)
	}

	if err := r.db.WithContext(ctx).Where("id IN ?", fileIDs).Find(&files).Error; err != nil {
		return nil, queryErr("list attachments", err)
	}

	return files, nil
}

// SweepOrphans deletes links whose task or file no longer exists. Safe to
// run at any time; correctness only relies on it eventually running.
func (r *AttachmentRepository) SweepOrphans(ctx context.Context) (int64, error) {
	var removed int64

	res := r.db.WithContext(ctx).
		Where("task_id NOT IN (SELECT id FROM tasks)").
		Delete(&models.TaskAttachment{})
	if res.Error != nil {
		return removed, queryErr("sweep orphan links", res.Error)
	}
	removed += res.RowsAffected

	res = r.db.WithContext(ctx).
		Where("file_id NOT IN (SELECT id FROM files)").
		Delete(&models.TaskAttachment{})
	if res.Error != nil {
		return removed, queryErr("sweep orphan links", res.Error)
	}
	removed += res.RowsAffected

	return removed, nil
}
