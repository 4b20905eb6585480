package models

import "time"

const NotificationSharePost = "share_post"

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	SenderID    uint      `gorm:"not null" json:"sender_id"`
	Sender      User      `gorm:"foreignKey:SenderID" json:"sender"`
	Type        string    `gorm:"not null" json:"type"`
	PostID      *uint     `json:"post_id,omitempty"`
	Post        *Post     `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Read        bool      `gorm:"default:false;index" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
