package models

import "time"

type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uint      `gorm:"not null;index:idx_comment_post_created" json:"post_id"`
	AuthorID        uint      `gorm:"not null;index" json:"author_id"`
	Author          User      `gorm:"foreignKey:AuthorID" json:"author"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	IsEdited        bool      `gorm:"default:false" json:"is_edited"`
	CreatedAt       time.Time `gorm:"index:idx_comment_post_created" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required,max=2000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}
