// Package models contains data structures for the vault's domain models.
package models

import (
	"time"
)

// User is an account owning content and share links.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the subset of a user that is safe to hand out and to embed in tokens.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Identity returns the public identity of the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}
