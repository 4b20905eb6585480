package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/social"
	"github.com/astroview/backend/internal/uploads"
)

type UserHandler struct {
	db    *gorm.DB
	graph *social.Store
}

func NewUserHandler(db *gorm.DB, graph *social.Store) *UserHandler {
	return &UserHandler{db: db, graph: graph}
}

// findUser resolves the :id route parameter, which may be a numeric ID or a
// username.
func (h *UserHandler) findUser(c *gin.Context) (*models.User, bool) {
	param := c.Param("id")
	var user models.User

	if id, err := strconv.ParseUint(param, 10, 64); err == nil {
		if err := h.db.First(&user, uint(id)).Error; err == nil {
			return &user, true
		}
	}
	if err := h.db.Where("username = ?", param).First(&user).Error; err == nil {
		return &user, true
	}

	fail(c, http.StatusNotFound, "User not found")
	return nil, false
}

// GetUserProfile returns a user's public profile with computed counts.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	followerCount, _ := h.graph.FollowerCount(ctx, user.ID)
	followingCount, _ := h.graph.FollowingCount(ctx, user.ID)

	var postCount int64
	h.db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&postCount)

	// Is the requesting user following this profile?
	isFollowing := false
	if viewerID, authed := currentUserID(c); authed {
		isFollowing, _ = h.graph.IsFollowing(ctx, viewerID, user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":            user,
			"follower_count":  followerCount,
			"following_count": followingCount,
			"post_count":      postCount,
			"is_following":    isFollowing,
		},
	})
}

// SearchUsers matches usernames and emails against ?q.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		fail(c, http.StatusBadRequest, "Search query is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var users []models.User
	if err := h.db.
		Where("username LIKE ? OR email LIKE ?", "%"+q+"%", "%"+q+"%").
		Limit(limit).
		Find(&users).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to search users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}

// FollowUser adds the authenticated user as a follower of :id.
func (h *UserHandler) FollowUser(c *gin.Context) {
	target, ok := h.findUser(c)
	if !ok {
		return
	}
	followerID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	count, err := h.graph.Follow(c.Request.Context(), followerID, target.ID)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User followed successfully",
		"data":    gin.H{"following": true, "follower_count": count},
	})
}

// UnfollowUser removes the follow relationship.
func (h *UserHandler) UnfollowUser(c *gin.Context) {
	target, ok := h.findUser(c)
	if !ok {
		return
	}
	followerID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	count, err := h.graph.Unfollow(c.Request.Context(), followerID, target.ID)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User unfollowed successfully",
		"data":    gin.H{"following": false, "follower_count": count},
	})
}

// GetFollowers returns a user's followers
func (h *UserHandler) GetFollowers(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	followers, err := h.graph.Followers(c.Request.Context(), user.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	if followers == nil {
		followers = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(followers), "data": followers})
}

// GetFollowing returns users that a user is following
func (h *UserHandler) GetFollowing(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	following, err := h.graph.Following(c.Request.Context(), user.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	if following == nil {
		following = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(following), "data": following})
}

// UpdateProfilePicture stores an uploaded avatar for the authenticated user.
func (h *UserHandler) UpdateProfilePicture(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		fail(c, http.StatusBadRequest, "Please upload an image")
		return
	}

	saved, err := uploads.Save(c, file, "avatars")
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	user.ProfilePicture = saved.URL
	if err := h.db.Save(&user).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile picture updated successfully", "data": user})
}

// GetAllUsers lists every account, newest first. Admin only.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var total int64
	h.db.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := h.db.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(users),
		"total":   total,
		"page":    page,
		"pages":   pages,
		"data":    users,
	})
}

// DeleteUser removes an account and everything hanging off it: posts (with
// their comments, likes and images), the user's own comments and likes, and
// every follow edge on either side. Admin only; admins cannot delete
// themselves.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	adminID, _ := currentUserID(c)
	if user.ID == adminID {
		fail(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", user.ID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			var commentIDs []uint
			if err := tx.Model(&models.Comment{}).Where("post_id IN ?", postIDs).
				Pluck("id", &commentIDs).Error; err != nil {
				return err
			}
			if len(commentIDs) > 0 {
				if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("author_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CommunityMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipient_id = ? OR sender_id = ?", user.ID, user.ID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	// Follow edges on either side and the user's own likes.
	if err := h.graph.RemoveUser(c.Request.Context(), user.ID); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
