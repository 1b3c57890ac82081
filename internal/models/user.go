package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultUserID is the sentinel owner used when no session token is
// presented. It is a plain scoping value; no users row needs to exist
// for it.
const DefaultUserID = "default"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`

	Preferences datatypes.JSON `json:"preferences,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
