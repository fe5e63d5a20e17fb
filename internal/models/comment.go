package models

import "time"

// Comment represents a comment on a post (PostgreSQL). Comments are
// append-only records; repeating the same text creates a new comment.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index"` // MongoDB ObjectID as string
	UserID    uint      `json:"user_id" gorm:"index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
