package models

import "time"

// File records metadata for an uploaded file. The bytes themselves live
// on disk under the upload directory, not in the database.
type File struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
	URL          string `json:"url"`

	CreatedAt time.Time `json:"created_at"`
}
