package models

import "time"

type Event struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`

	// Date is a calendar date ("2006-01-02"). The postgres driver may hand
	// back a full timestamp for a date column, so readers compare only the
	// part before any 'T'.
	Date string `gorm:"type:date;index;not null" json:"date"`
	Time string `json:"time"`

	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	Color    string `json:"color"`
	Location string `json:"location"`

	AllDay bool `json:"all_day"`

	// Recurring flags are stored verbatim and never expanded server-side.
	Recurring     bool   `json:"recurring"`
	RecurringType string `json:"recurring_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
