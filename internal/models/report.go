package models

import "time"

// Report statuses and resolution actions
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"

	ReportActionRemoved   = "removed"
	ReportActionDismissed = "dismissed"
)

// Report represents a moderation report on a post. One per (post, reporter).
type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PostID      string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_reporter"` // MongoDB ObjectID as string
	ReporterID  uint      `json:"reporter_id" gorm:"index;uniqueIndex:idx_post_reporter"`
	Reason      string    `json:"reason" gorm:"size:100"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"size:20;default:'pending';index"`
	Action      string    `json:"action" gorm:"size:20"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateReportRequest struct {
	Reason      string `json:"reason" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type ResolveReportRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved rejected"`
	Action string `json:"action,omitempty" validate:"omitempty,oneof=removed dismissed"`
}
