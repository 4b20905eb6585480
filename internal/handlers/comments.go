package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/social"
)

type CommentHandler struct {
	db    *gorm.DB
	graph *social.Store
}

func NewCommentHandler(db *gorm.DB, graph *social.Store) *CommentHandler {
	return &CommentHandler{db: db, graph: graph}
}

// GetComments lists a post's top-level comments oldest first, each with its
// replies nested under "replies".
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return
	}
	var post models.Post
	if err := h.db.First(&post, uint(postID)).Error; err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	var comments []models.Comment
	if err := h.db.
		Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	replies := make(map[uint][]models.Comment)
	var topLevel []models.Comment
	for _, comment := range comments {
		if comment.ParentCommentID != nil {
			replies[*comment.ParentCommentID] = append(replies[*comment.ParentCommentID], comment)
		} else {
			topLevel = append(topLevel, comment)
		}
	}

	ctx := c.Request.Context()
	threads := make([]gin.H, 0, len(topLevel))
	for _, comment := range topLevel {
		likeCount, _ := h.graph.CommentLikeCount(ctx, comment.ID)
		thread := gin.H{
			"comment":    comment,
			"like_count": likeCount,
			"replies":    replies[comment.ID],
		}
		if thread["replies"] == nil {
			thread["replies"] = []models.Comment{}
		}
		threads = append(threads, thread)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(threads), "data": threads})
}

// CreateComment adds a comment or a reply to a post.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid post ID")
		return
	}
	var post models.Post
	if err := h.db.First(&post, uint(postID)).Error; err != nil {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	userID, _ := currentUserID(c)

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if req.ParentCommentID != nil {
		var parent models.Comment
		if err := h.db.First(&parent, *req.ParentCommentID).Error; err != nil {
			fail(c, http.StatusNotFound, "Parent comment not found")
			return
		}
		if parent.PostID != post.ID {
			fail(c, http.StatusBadRequest, "Parent comment belongs to a different post")
			return
		}
		comment.ParentCommentID = req.ParentCommentID
	}

	if err := h.db.Create(&comment).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	h.db.Preload("Author").First(&comment, comment.ID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Comment added successfully", "data": comment})
}

// UpdateComment lets the author edit their comment.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	comment, ok := h.findComment(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	if comment.AuthorID != userID {
		fail(c, http.StatusForbidden, "Not authorized to update this comment")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment.Content = req.Content
	comment.IsEdited = true
	if err := h.db.Save(comment).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment updated successfully", "data": comment})
}

// DeleteComment removes a comment with its replies and their likes.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	comment, ok := h.findComment(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	if comment.AuthorID != userID && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Not authorized to delete this comment")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).Where("parent_comment_id = ?", comment.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		ids := append(replyIDs, comment.ID)
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted successfully"})
}

// LikeComment records a like on a comment.
func (h *CommentHandler) LikeComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}
	userID, _ := currentUserID(c)

	count, liked, err := h.graph.LikeComment(c.Request.Context(), userID, uint(commentID))
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment liked successfully",
		"data":    gin.H{"liked": liked, "like_count": count},
	})
}

// UnlikeComment removes a like from a comment.
func (h *CommentHandler) UnlikeComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}
	userID, _ := currentUserID(c)

	count, liked, err := h.graph.UnlikeComment(c.Request.Context(), userID, uint(commentID))
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment unliked successfully",
		"data":    gin.H{"liked": liked, "like_count": count},
	})
}

func (h *CommentHandler) findComment(c *gin.Context) (*models.Comment, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid comment ID")
		return nil, false
	}

	var comment models.Comment
	if err := h.db.Preload("Author").First(&comment, uint(id)).Error; err != nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return nil, false
	}
	return &comment, true
}
