package models

import "time"

// Mark kinds
const (
	MarkKindLike = "like"
	MarkKindSave = "save"
)

// Mark is an idempotent per-user engagement record (like or save) on a post.
// At most one mark exists per (user, post, kind); the posts collection caches
// the per-kind totals.
type Mark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_kind"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_kind"` // MongoDB ObjectID as string
	Kind      string    `json:"kind" gorm:"size:10;uniqueIndex:idx_user_post_kind"`
	CreatedAt time.Time `json:"created_at"`
}
