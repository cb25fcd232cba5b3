package models

import "time"

// Post is a board entry. Username and Role are copied from the author's
// session when the post is written and are never updated afterwards.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Username string    `gorm:"size:50;not null;index" json:"username"`
	Role     string    `gorm:"size:50" json:"role"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	// CommentCount is not persisted; computed at query time
	CommentCount int       `gorm:"->;-:migration" json:"comment_count"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
