package models

import (
	"regexp"
	"strings"
	"time"
)

const (
	CommunityPrivacyPublic  = "public"
	CommunityPrivacyPrivate = "private"

	CommunityRoleMember    = "member"
	CommunityRoleModerator = "moderator"
)

type Community struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	CoverImage  string `json:"cover_image"`
	Category    string `gorm:"index" json:"category"` // Deep Sky Objects, Planetary Imaging, ...
	Privacy     string `gorm:"default:public" json:"privacy"`
	AdminID     uint   `gorm:"not null" json:"admin_id"`
	Admin       User   `gorm:"foreignKey:AdminID" json:"admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommunityMember is one user's membership in one community; the creator is
// added as a moderator member on creation.
type CommunityMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"not null;index;uniqueIndex:idx_community_member_pair" json:"community_id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_community_member_pair" json:"user_id"`
	Role        string    `gorm:"default:member" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a community name into its URL slug ("Deep Sky Imaging" -> "deep-sky-imaging").
func Slugify(name string) string {
	s := slugCleanup.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
