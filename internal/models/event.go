package models

import "time"

const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

// CelestialEvent is a sky event listing (meteor shower, eclipse, conjunction...).
// Events submitted by regular users sit in pending until an admin approves them.
type CelestialEvent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Type        string `gorm:"not null;index" json:"type"` // Meteor Shower, Lunar Eclipse, ...
	Description string `gorm:"type:text;not null" json:"description"`

	StartDate time.Time  `gorm:"not null;index" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	PeakTime  *time.Time `json:"peak_time,omitempty"`

	Visibility    string   `gorm:"default:Global" json:"visibility"` // Global, Northern Hemisphere, ...
	Magnitude     *float64 `json:"magnitude,omitempty"`              // brightness, lower is brighter
	Constellation string   `json:"constellation,omitempty"`
	RA            string   `json:"ra,omitempty"`
	Dec           string   `json:"dec,omitempty"`
	Tips          string   `gorm:"type:text" json:"tips,omitempty"`

	ImageURL     string `json:"image_url,omitempty"`
	Source       string `gorm:"default:NASA" json:"source"`
	ExternalLink string `json:"external_link,omitempty"`

	Status          string     `gorm:"default:pending;index" json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedByID     uint       `gorm:"not null" json:"created_by_id"`
	CreatedBy       User       `gorm:"foreignKey:CreatedByID" json:"created_by"`
	ApprovedByID    *uint      `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
