package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/social"
	"github.com/astroview/backend/internal/uploads"
)

type PostHandler struct {
	db    *gorm.DB
	graph *social.Store
}

func NewPostHandler(db *gorm.DB, graph *social.Store) *PostHandler {
	return &PostHandler{db: db, graph: graph}
}

// CreatePost accepts multipart form data: post fields plus up to five image
// files under the "images" key.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	content := c.PostForm("content")
	if content == "" {
		fail(c, http.StatusBadRequest, "Post content is required")
		return
	}

	visibility := c.DefaultPostForm("visibility", models.VisibilityPublic)
	if !models.ValidVisibility(visibility) {
		fail(c, http.StatusBadRequest, "Invalid visibility value")
		return
	}

	post := models.Post{
		AuthorID:   userID,
		Content:    content,
		Visibility: visibility,
		ObjectName: c.PostForm("object_name"),
		ObjectType: c.PostForm("object_type"),
		RA:         c.PostForm("ra"),
		Dec:        c.PostForm("dec"),
		Location:   c.PostForm("location"),
		Telescope:  c.PostForm("telescope"),
		Camera:     c.PostForm("camera"),
		Exposure:   c.PostForm("exposure"),
		Tags:       c.PostForm("tags"),
	}
	if iso, err := strconv.Atoi(c.PostForm("iso")); err == nil {
		post.ISO = iso
	}
	if capture := c.PostForm("capture_date"); capture != "" {
		if t, err := time.Parse("2006-01-02", capture); err == nil {
			post.CaptureDate = &t
		}
	}
	if communityID := c.PostForm("community_id"); communityID != "" {
		id, err := strconv.ParseUint(communityID, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid community ID")
			return
		}
		var community models.Community
		if err := h.db.First(&community, uint(id)).Error; err != nil {
			fail(c, http.StatusNotFound, "Community not found")
			return
		}
		cid := uint(id)
		post.CommunityID = &cid
	}

	form, err := c.MultipartForm()
	if err == nil && form.File["images"] != nil {
		files := form.File["images"]
		if len(files) > 5 {
			fail(c, http.StatusBadRequest, "A post can have at most 5 images")
			return
		}
		for _, file := range files {
			saved, err := uploads.Save(c, file, "posts")
			if err != nil {
				fail(c, http.StatusBadRequest, err.Error())
				return
			}
			post.Images = append(post.Images, models.PostImage{
				URL:      saved.URL,
				PublicID: saved.PublicID,
			})
		}
	}

	if err := h.db.Create(&post).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create post")
		return
	}
	h.db.Preload("Author").Preload("Images").Preload("Community").First(&post, post.ID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Post created successfully", "data": post})
}

// GetPosts lists public posts, newest first, with optional filters:
// ?tag=, ?object_type=, ?community=, ?page=, ?limit=
func (h *PostHandler) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := h.db.Model(&models.Post{}).Where("visibility = ?", models.VisibilityPublic)
	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags LIKE ?", "%"+tag+"%")
	}
	if objectType := c.Query("object_type"); objectType != "" {
		query = query.Where("object_type = ?", objectType)
	}
	if community := c.Query("community"); community != "" {
		query = query.Where("community_id = ?", community)
	}
	if author := c.Query("author"); author != "" {
		query = query.Where("author_id = ?", author)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("content LIKE ? OR object_name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var posts []models.Post
	if err := query.
		Preload("Author").Preload("Images").Preload("Community").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(posts),
		"total":   total,
		"page":    page,
		"pages":   pages,
		"data":    posts,
	})
}

// GetPost returns a single post with its like count and, for authenticated
// callers, whether they have liked it.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, ok := h.findPost(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	likeCount, _ := h.graph.PostLikeCount(ctx, post.ID)
	var commentCount int64
	h.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)

	liked := false
	if viewerID, authed := currentUserID(c); authed {
		liked, _ = h.graph.HasLikedPost(ctx, viewerID, post.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"post":          post,
			"like_count":    likeCount,
			"comment_count": commentCount,
			"liked":         liked,
		},
	})
}

// GetUserPosts lists a user's posts, newest first. Private and
// followers-only posts are included only for the author themselves.
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var author models.User
	if err := h.db.First(&author, uint(authorID)).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	query := h.db.Model(&models.Post{}).Where("author_id = ?", author.ID)
	viewerID, authed := currentUserID(c)
	if !authed || viewerID != author.ID {
		visibilities := []string{models.VisibilityPublic}
		if authed {
			if following, _ := h.graph.IsFollowing(c.Request.Context(), viewerID, author.ID); following {
				visibilities = append(visibilities, models.VisibilityFollowers)
			}
		}
		query = query.Where("visibility IN ?", visibilities)
	}

	var posts []models.Post
	if err := query.
		Preload("Author").Preload("Images").Preload("Community").
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(posts), "data": posts})
}

// UpdatePost lets the author edit content, metadata and visibility.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	post, ok := h.findPost(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	if post.AuthorID != userID && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Not authorized to update this post")
		return
	}

	var req struct {
		Content    string `json:"content"`
		ObjectName string `json:"object_name"`
		ObjectType string `json:"object_type"`
		Location   string `json:"location"`
		Tags       string `json:"tags"`
		Visibility string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ObjectName != "" {
		post.ObjectName = req.ObjectName
	}
	if req.ObjectType != "" {
		post.ObjectType = req.ObjectType
	}
	if req.Location != "" {
		post.Location = req.Location
	}
	if req.Tags != "" {
		post.Tags = req.Tags
	}
	if req.Visibility != "" {
		if !models.ValidVisibility(req.Visibility) {
			fail(c, http.StatusBadRequest, "Invalid visibility value")
			return
		}
		post.Visibility = req.Visibility
	}

	if err := h.db.Save(post).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post updated successfully", "data": post})
}

// DeletePost removes a post along with its comments, likes and stored images.
func (h *PostHandler) DeletePost(c *gin.Context) {
	post, ok := h.findPost(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	if post.AuthorID != userID && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Not authorized to delete this post")
		return
	}

	var images []models.PostImage
	h.db.Where("post_id = ?", post.ID).Find(&images)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", post.ID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	for _, img := range images {
		uploads.Remove("posts", img.PublicID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted successfully"})
}

// LikePost records a like. Liking twice is rejected.
func (h *PostHandler) LikePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return
	}
	userID, _ := currentUserID(c)

	count, liked, err := h.graph.LikePost(c.Request.Context(), userID, uint(postID))
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post liked successfully",
		"data":    gin.H{"liked": liked, "like_count": count},
	})
}

// UnlikePost removes a like. Unliking a post that was never liked is rejected.
func (h *PostHandler) UnlikePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return
	}
	userID, _ := currentUserID(c)

	count, liked, err := h.graph.UnlikePost(c.Request.Context(), userID, uint(postID))
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post unliked successfully",
		"data":    gin.H{"liked": liked, "like_count": count},
	})
}

// SharePost notifies the post author that someone shared their post. Repeat
// shares by the same user within a minute are ignored to stop notification
// spam.
func (h *PostHandler) SharePost(c *gin.Context) {
	post, ok := h.findPost(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	if post.AuthorID != userID {
		var recent int64
		cutoff := time.Now().Add(-time.Minute)
		h.db.Model(&models.Notification{}).
			Where("recipient_id = ? AND sender_id = ? AND post_id = ? AND type = ? AND created_at > ?",
				post.AuthorID, userID, post.ID, models.NotificationSharePost, cutoff).
			Count(&recent)
		if recent == 0 {
			postID := post.ID
			h.db.Create(&models.Notification{
				RecipientID: post.AuthorID,
				SenderID:    userID,
				Type:        models.NotificationSharePost,
				PostID:      &postID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post shared successfully"})
}

func (h *PostHandler) findPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return nil, false
	}

	var post models.Post
	if err := h.db.
		Preload("Author").Preload("Images").Preload("Community").
		First(&post, uint(id)).Error; err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return nil, false
	}
	return &post, true
}
