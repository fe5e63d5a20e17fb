package models

import "time"

// Event represents a campus event (PostgreSQL). AttendeesCount caches the
// event_rsvps rows; MaxAttendees == 0 means unlimited.
type Event struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Category       string     `json:"category" gorm:"size:50;index"`
	StartsAt       time.Time  `json:"starts_at" gorm:"index"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	MaxAttendees   int64      `json:"max_attendees"`
	OrganizerID    uint       `json:"organizer_id" gorm:"index"`
	AttendeesCount int64      `json:"attendees_count"`
	FacultyID      *uint      `json:"faculty_id,omitempty" gorm:"index"`
	GroupID        *uint      `json:"group_id,omitempty" gorm:"index"`
	CreatedAt      time.Time  `json:"created_at"`
}

// EventRSVP is an attendance row; at most one per (event, user).
type EventRSVP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"index;uniqueIndex:idx_event_user_rsvp"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_event_user_rsvp"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateEventRequest struct {
	Title        string     `json:"title" validate:"required,min=2,max=150"`
	Description  string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location     string     `json:"location,omitempty" validate:"omitempty,max=200"`
	Category     string     `json:"category,omitempty" validate:"omitempty,max=50"`
	StartsAt     time.Time  `json:"starts_at" validate:"required"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	MaxAttendees int64      `json:"max_attendees,omitempty" validate:"omitempty,min=0"`
	FacultyID    *uint      `json:"faculty_id,omitempty"`
	GroupID      *uint      `json:"group_id,omitempty"`
}
