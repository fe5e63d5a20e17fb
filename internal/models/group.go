package models

import "time"

// Group represents a student group (PostgreSQL). MembersCount is a cache
// over group_members, mutated in the same transaction as the membership row.
type Group struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category" gorm:"size:50;index"`
	IsPrivate    bool      `json:"is_private" gorm:"default:false"`
	OwnerID      uint      `json:"owner_id" gorm:"index"`
	MembersCount int64     `json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// GroupMember is a membership row; at most one per (group, user).
type GroupMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"index;uniqueIndex:idx_group_user_member"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_group_user_member"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=50"`
	IsPrivate   bool   `json:"is_private"`
}

// InviteRequest is shared by group and event invitations.
type InviteRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
