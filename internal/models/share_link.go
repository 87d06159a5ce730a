package models

import "time"

// ShareLink grants public read access to one user's vault through an opaque hash.
type ShareLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Hash      string    `gorm:"uniqueIndex;size:64;not null" json:"hash"`
	UserID    uint      `gorm:"not null;index" json:"user"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
