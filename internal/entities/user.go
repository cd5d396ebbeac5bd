package entities

import (
	"time"

	"gorm.io/gorm"
)

// User is a local account used to gate the review write path. The ID doubles
// as the books_read.user_id value, so it is a UUID string rather than an
// auto-increment integer.
type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string         `gorm:"size:100" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "app_user" }

// Initials returns a short display key for review listings.
func (u *User) Initials() string {
	if u.Username == "" {
		return "?"
	}
	initials := []rune(u.Username)[:1]
	for i, r := range u.Username {
		if i > 0 && (u.Username[i-1] == ' ' || u.Username[i-1] == '.') {
			initials = append(initials, r)
		}
	}
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return string(initials)
}
