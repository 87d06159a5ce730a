package models

import "time"

// Content is a single saved item in a user's vault.
type Content struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Link      string    `gorm:"not null" json:"link"`
	Type      string    `gorm:"not null" json:"type"`
	Tags      []string  `gorm:"serializer:json" json:"tags"`
	UserID    uint      `gorm:"not null;index" json:"user"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
