package models

import "time"

// Notification types
const (
	NotificationFollow       = "follow"
	NotificationLike         = "like"
	NotificationComment      = "comment"
	NotificationMessage      = "message"
	NotificationGroupInvite  = "group_invite"
	NotificationEventInvite  = "event_invite"
	NotificationAnnouncement = "announcement"
	NotificationAdmin        = "admin"
)

// Notification represents a user notification (PostgreSQL). Immutable after
// creation except for the IsRead flip and deletion by the recipient.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    string    `json:"target_id"`                  // post ID, user ID, group ID, etc.
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, user, group, event, message
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
