package models

import (
	"time"
)

// UserRole enum
type UserRole string

const (
	RoleRegular UserRole = "REGULAR"
	RoleAdmin   UserRole = "ADMIN"
)

// User model for authentication
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"default:REGULAR" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
