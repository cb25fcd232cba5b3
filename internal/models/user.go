// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered community member. Role is a free-text label chosen at
// registration and is never validated against a fixed set.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:50" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity returns the session snapshot of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
