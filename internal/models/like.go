package models

import "time"

// PostLike records one user liking one post. The unique pair index is the
// add-if-absent primitive: a concurrent duplicate like loses the insert race
// and is reported as already-liked. Like counts are always computed from
// these rows, never stored.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_post_like_pair" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_post_like_pair" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_comment_like_pair" json:"user_id"`
	CommentID uint      `gorm:"not null;index;uniqueIndex:idx_comment_like_pair" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
