package models

import (
	"fmt"
	"net/url"
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	ProfilePicture     string `json:"profile_picture"`
	Bio                string `json:"bio"`
	Location           string `json:"location"`
	AstronomyInterests string `json:"astronomy_interests"` // comma-separated, e.g. "Deep Sky,Nebulae"

	// Observing equipment
	Telescope string `json:"telescope"`
	Camera    string `json:"camera"`
	Mount     string `json:"mount"`

	Role       string    `gorm:"default:user" json:"role"` // user, moderator, admin
	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	LastActive time.Time `json:"last_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultProfilePicture mirrors the placeholder avatar assigned at registration.
func DefaultProfilePicture(username string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=8b5cf6&color=fff&size=200", url.QueryEscape(username))
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
