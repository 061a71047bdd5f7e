package models

import (
	"time"
)

// Post is a single blog entry. Username is the author's display name copied
// from the user at creation time; UserID is the owning user and never changes
// after insert. Timestamps are assigned by the store, never by clients.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;not null" json:"title"`
	Username  string    `gorm:"not null" json:"username"`
	Content   string    `json:"content"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"modifiedAt"`
}

func (Post) TableName() string {
	return "posts"
}
