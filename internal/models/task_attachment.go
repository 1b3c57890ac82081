package models

import "time"

// TaskAttachment links a stored file to a task. Validity is eventual:
// deleting a task removes its links, and a maintenance sweep cleans up
// anything orphaned by a failed delete.
type TaskAttachment struct {
	TaskID string `gorm:"primaryKey" json:"task_id"`
	FileID string `gorm:"primaryKey" json:"file_id"`

	CreatedAt time.Time `json:"created_at"`
}
