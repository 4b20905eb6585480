// Package social maintains the follow graph and the per-post/per-comment like
// sets. Every mutation has exactly-once semantics per actor: duplicate
// membership is impossible because each relation carries a unique composite
// index, and the losing side of a concurrent duplicate write observes the
// matching Already*/Not* error. Counts are computed from the relation rows on
// every call rather than kept in stored counters that could drift.
package social

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/astroview/backend/internal/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Follow creates the follower->target edge and returns the target's updated
// follower count.
func (s *Store) Follow(ctx context.Context, followerID, targetID uint) (int64, error) {
	if followerID == targetID {
		return 0, ErrSelfFollow
	}
	if err := s.userExists(ctx, targetID); err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: followerID, FollowingID: targetID})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrAlreadyFollowing
	}

	return s.FollowerCount(ctx, targetID)
}

// Unfollow removes the edge; both directions of the relationship disappear
// with the single row.
func (s *Store) Unfollow(ctx context.Context, followerID, targetID uint) (int64, error) {
	if err := s.userExists(ctx, targetID); err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFollowing
	}

	return s.FollowerCount(ctx, targetID)
}

func (s *Store) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Count(&n).Error
	return n > 0, err
}

// FollowingIDs returns the follow-set of userID, the author filter for feed
// composition.
func (s *Store) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// Followers lists the users following userID.
func (s *Store) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Find(&users).Error
	return users, err
}

// Following lists the users userID follows.
func (s *Store) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}

func (s *Store) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).Count(&n).Error
	return n, err
}

func (s *Store) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// LikePost adds actorID to the post's like set. Returns the new like count
// and the liked state.
func (s *Store) LikePost(ctx context.Context, actorID, postID uint) (int64, bool, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return 0, false, err
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostLike{UserID: actorID, PostID: postID})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, true, ErrAlreadyLiked
	}

	n, err := s.PostLikeCount(ctx, postID)
	return n, true, err
}

// UnlikePost removes actorID from the post's like set.
func (s *Store) UnlikePost(ctx context.Context, actorID, postID uint) (int64, bool, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return 0, false, err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", actorID, postID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, ErrNotLiked
	}

	n, err := s.PostLikeCount(ctx, postID)
	return n, false, err
}

func (s *Store) LikeComment(ctx context.Context, actorID, commentID uint) (int64, bool, error) {
	if err := s.commentExists(ctx, commentID); err != nil {
		return 0, false, err
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CommentLike{UserID: actorID, CommentID: commentID})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, true, ErrAlreadyLiked
	}

	n, err := s.CommentLikeCount(ctx, commentID)
	return n, true, err
}

func (s *Store) UnlikeComment(ctx context.Context, actorID, commentID uint) (int64, bool, error) {
	if err := s.commentExists(ctx, commentID); err != nil {
		return 0, false, err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", actorID, commentID).
		Delete(&models.CommentLike{})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, ErrNotLiked
	}

	n, err := s.CommentLikeCount(ctx, commentID)
	return n, false, err
}

func (s *Store) PostLikeCount(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (s *Store) HasLikedPost(ctx context.Context, actorID, postID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", actorID, postID).Count(&n).Error
	return n > 0, err
}

func (s *Store) CommentLikeCount(ctx context.Context, commentID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).Count(&n).Error
	return n, err
}

// RemoveUser purges a deleted user from the graph: every edge the user sits
// on (either side) and every like the user has placed.
func (s *Store) RemoveUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CommentLike{}).Error
	})
}

func (s *Store) userExists(ctx context.Context, id uint) error {
	var u models.User
	if err := s.db.WithContext(ctx).Select("id").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Store) postExists(ctx context.Context, id uint) error {
	var p models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *Store) commentExists(ctx context.Context, id uint) error {
	var c models.Comment
	if err := s.db.WithContext(ctx).Select("id").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
