package models

import "time"

// Task status values accepted at the API boundary. Transitions are
// unrestricted; a status update may move a task between any two columns.
const (
	StatusTodo      = "todo"
	StatusProgress  = "progress"
	StatusCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const DefaultCategory = "personal"

func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusProgress || s == StatusCompleted
}

type Task struct {
	ID string `gorm:"primaryKey" json:"id"`

	// UserID scopes queries. It is deliberately not a foreign key so the
	// "default" sentinel works without a users row.
	UserID string `gorm:"index;not null" json:"user_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Status      string `gorm:"index" json:"status"`

	// DueDate and DueTime hold the raw "2006-01-02" / "15:04" strings;
	// DueDatetime is their combination when both are present.
	DueDate     string     `json:"due_date"`
	DueTime     string     `json:"due_time"`
	DueDatetime *time.Time `json:"due_datetime"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Attachments is populated on demand through task_attachments.
	Attachments []File `gorm:"-" json:"attachments,omitempty"`
}
