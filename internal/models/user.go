package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents an account (PostgreSQL). FollowersCount and FollowingCount
// are caches over the follows table and are only mutated together with the
// edge inside the same transaction.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	Role           string    `json:"role" gorm:"size:20;default:'student';index"`
	FacultyID      *uint     `json:"faculty_id,omitempty" gorm:"index"`
	Program        string    `json:"program"`
	Level          string    `json:"level"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserCompact is the embedded author/actor shape returned inside posts,
// comments and notifications.
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ToCompact returns the compact representation of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Faculty  string `json:"faculty,omitempty" validate:"omitempty,max=100"`
	Program  string `json:"program,omitempty" validate:"omitempty,max=100"`
	Level    string `json:"level,omitempty" validate:"omitempty,max=50"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Program   string `json:"program,omitempty" validate:"omitempty,max=100"`
	Level     string `json:"level,omitempty" validate:"omitempty,max=50"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
