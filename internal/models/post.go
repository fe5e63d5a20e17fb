package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB. The counter fields are derived
// caches mutated only through atomic update operators, never set by clients.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Content       string             `json:"content" bson:"content"`
	MediaURLs     []string           `json:"media_urls,omitempty" bson:"media_urls,omitempty"`
	Hashtags      []string           `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	IsPublic      bool               `json:"is_public" bson:"is_public"`
	FacultyID     *uint              `json:"faculty_id,omitempty" bson:"faculty_id,omitempty"`
	GroupID       *uint              `json:"group_id,omitempty" bson:"group_id,omitempty"`
	LikesCount    int64              `json:"likes_count" bson:"likes_count"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	SavesCount    int64              `json:"saves_count" bson:"saves_count"`
	SharesCount   int64              `json:"shares_count" bson:"shares_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"required,min=1,max=2000"`
	MediaURLs []string `json:"media_urls,omitempty" validate:"omitempty,dive,url"`
	IsPublic  *bool    `json:"is_public,omitempty"`
	FacultyID *uint    `json:"faculty_id,omitempty"`
	GroupID   *uint    `json:"group_id,omitempty"`
}
