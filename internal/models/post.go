package models

import "time"

const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index:idx_post_author_created" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content  string `gorm:"type:text" json:"content"`

	Images []PostImage `gorm:"foreignKey:PostID" json:"images"`

	// Capture metadata for astrophotography posts
	ObjectName  string     `json:"object_name,omitempty"`
	ObjectType  string     `json:"object_type,omitempty"` // Galaxy, Nebula, Planet, ...
	RA          string     `json:"ra,omitempty"`
	Dec         string     `json:"dec,omitempty"`
	CaptureDate *time.Time `json:"capture_date,omitempty"`
	Location    string     `json:"location,omitempty"`
	Telescope   string     `json:"telescope,omitempty"`
	Camera      string     `json:"camera,omitempty"`
	ISO         int        `json:"iso,omitempty"`
	Exposure    string     `json:"exposure,omitempty"`

	Tags        string     `json:"tags"` // comma-separated, lowercase
	Visibility  string     `gorm:"default:public;index" json:"visibility"`
	CommunityID *uint      `gorm:"index" json:"community_id,omitempty"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	IsPinned    bool       `gorm:"default:false" json:"is_pinned"`

	CreatedAt time.Time `gorm:"index:idx_post_author_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	URL      string `gorm:"not null" json:"url"`
	PublicID string `gorm:"not null" json:"public_id"` // filename on disk, used for deletion
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// ValidVisibility reports whether v is one of the visibility enum values.
func ValidVisibility(v string) bool {
	return v == VisibilityPublic || v == VisibilityFollowers || v == VisibilityPrivate
}
