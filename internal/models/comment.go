package models

import "time"

// Comment belongs to exactly one Post and carries a snapshot of its author.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	Role      string    `gorm:"size:50" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
