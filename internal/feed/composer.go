// Package feed builds the personalized home timeline: the posts a user may
// see, newest first, paginated.
package feed

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/social"
)

const DefaultPageSize = 10

// Page is one page of a user's feed. Pages is ceil(Total/limit), 0 when
// nothing matched.
type Page struct {
	Posts []models.Post `json:"posts"`
	Count int           `json:"count"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

type Composer struct {
	db    *gorm.DB
	graph *social.Store
}

func NewComposer(db *gorm.DB, graph *social.Store) *Composer {
	return &Composer{db: db, graph: graph}
}

// Generate returns page `page` (1-indexed, size `limit`) of the posts visible
// to userID: posts whose author the user follows, plus public posts from
// anyone. The visibility rule is a single predicate evaluated once per post,
// so a followed author's public posts cannot be double-counted. page and
// limit are clamped to a minimum of 1; limit defaults to DefaultPageSize
// when unset.
//
// Note that a user's own followers-only and private posts do not appear in
// their own feed: the author is not in their own follow-set.
func (c *Composer) Generate(ctx context.Context, userID uint, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 1 {
		limit = 1
	}

	var user models.User
	if err := c.db.WithContext(ctx).Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, social.ErrUserNotFound
		}
		return nil, err
	}

	following, err := c.graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := c.db.WithContext(ctx).Model(&models.Post{})
	if len(following) > 0 {
		q = q.Where("author_id IN ? OR visibility = ?", following, models.VisibilityPublic)
	} else {
		// Not following anyone: the predicate degenerates to public-only.
		q = q.Where("visibility = ?", models.VisibilityPublic)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	err = q.
		Preload("Author").
		Preload("Images").
		Preload("Community").
		Order("created_at DESC, id DESC"). // id breaks timestamp ties for stable pagination
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &Page{
		Posts: posts,
		Count: len(posts),
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

// SuggestedUsers returns up to limit users that userID does not yet follow,
// most-followed first.
func (c *Composer) SuggestedUsers(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	if limit < 1 {
		limit = 5
	}

	var users []models.User
	err := c.db.WithContext(ctx).
		Where("users.id <> ?", userID).
		Where("users.id NOT IN (?)",
			c.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID)).
		Select("users.*, (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) AS follower_total").
		Order("follower_total DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
