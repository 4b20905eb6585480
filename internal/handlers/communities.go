package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
)

type CommunityHandler struct {
	db *gorm.DB
}

func NewCommunityHandler(db *gorm.DB) *CommunityHandler {
	return &CommunityHandler{db: db}
}

// GetCommunities lists communities with member counts, optionally filtered
// by ?category=.
func (h *CommunityHandler) GetCommunities(c *gin.Context) {
	query := h.db.Model(&models.Community{}).Preload("Admin")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var communities []models.Community
	if err := query.Order("created_at DESC").Find(&communities).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch communities")
		return
	}

	out := make([]gin.H, 0, len(communities))
	for _, community := range communities {
		var memberCount int64
		h.db.Model(&models.CommunityMember{}).
			Where("community_id = ?", community.ID).Count(&memberCount)
		out = append(out, gin.H{"community": community, "member_count": memberCount})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "data": out})
}

// GetCommunity fetches one community by its slug.
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	var community models.Community
	if err := h.db.Preload("Admin").
		Where("slug = ?", c.Param("slug")).
		First(&community).Error; err != nil {
		fail(c, http.StatusNotFound, "Community not found")
		return
	}

	var memberCount int64
	h.db.Model(&models.CommunityMember{}).
		Where("community_id = ?", community.ID).Count(&memberCount)

	var postCount int64
	h.db.Model(&models.Post{}).Where("community_id = ?", community.ID).Count(&postCount)

	isMember := false
	if userID, authed := currentUserID(c); authed {
		var n int64
		h.db.Model(&models.CommunityMember{}).
			Where("community_id = ? AND user_id = ?", community.ID, userID).Count(&n)
		isMember = n > 0
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"community":    community,
			"member_count": memberCount,
			"post_count":   postCount,
			"is_member":    isMember,
		},
	})
}

// CreateCommunity creates a community; the creator becomes its admin and
// first member.
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Privacy     string `json:"privacy"`
		CoverImage  string `json:"cover_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Community name is required")
		return
	}

	slug := models.Slugify(req.Name)
	var existing models.Community
	if err := h.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		fail(c, http.StatusBadRequest, "A community with this name already exists")
		return
	}

	privacy := req.Privacy
	if privacy == "" {
		privacy = models.CommunityPrivacyPublic
	}

	community := models.Community{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Category:    req.Category,
		Privacy:     privacy,
		CoverImage:  req.CoverImage,
		AdminID:     userID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}
		return tx.Create(&models.CommunityMember{
			CommunityID: community.ID,
			UserID:      userID,
			Role:        models.CommunityRoleModerator,
		}).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create community")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Community created successfully", "data": community})
}

// JoinCommunity adds the authenticated user as a member.
func (h *CommunityHandler) JoinCommunity(c *gin.Context) {
	community, ok := h.findCommunity(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	var n int64
	h.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", community.ID, userID).Count(&n)
	if n > 0 {
		fail(c, http.StatusBadRequest, "Already a member of this community")
		return
	}

	member := models.CommunityMember{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        models.CommunityRoleMember,
	}
	if err := h.db.Create(&member).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to join community")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Joined community successfully"})
}

// LeaveCommunity removes the authenticated user's membership. The community
// admin cannot leave their own community.
func (h *CommunityHandler) LeaveCommunity(c *gin.Context) {
	community, ok := h.findCommunity(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)

	if community.AdminID == userID {
		fail(c, http.StatusBadRequest, "Community admin cannot leave their own community")
		return
	}

	result := h.db.Where("community_id = ? AND user_id = ?", community.ID, userID).
		Delete(&models.CommunityMember{})
	if result.Error != nil {
		fail(c, http.StatusInternalServerError, "Failed to leave community")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusBadRequest, "Not a member of this community")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Left community successfully"})
}

// UpdateCommunity lets the community admin or a site admin edit details.
func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	community, ok := h.findCommunity(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	if community.AdminID != userID && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Not authorized to update this community")
		return
	}

	var req struct {
		Description string `json:"description"`
		Category    string `json:"category"`
		Privacy     string `json:"privacy"`
		CoverImage  string `json:"cover_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Description != "" {
		community.Description = req.Description
	}
	if req.Category != "" {
		community.Category = req.Category
	}
	if req.Privacy != "" {
		community.Privacy = req.Privacy
	}
	if req.CoverImage != "" {
		community.CoverImage = req.CoverImage
	}

	if err := h.db.Save(community).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update community")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Community updated successfully", "data": community})
}

// DeleteCommunity removes a community and its memberships; posts in it are
// detached rather than deleted.
func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	community, ok := h.findCommunity(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	if community.AdminID != userID && !isAdmin(c) {
		fail(c, http.StatusForbidden, "Not authorized to delete this community")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ?", community.ID).
			Delete(&models.CommunityMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("community_id = ?", community.ID).
			Update("community_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Community{}, community.ID).Error
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete community")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Community deleted successfully"})
}

func (h *CommunityHandler) findCommunity(c *gin.Context) (*models.Community, bool) {
	param := c.Param("slug")
	var community models.Community

	if id, err := strconv.ParseUint(param, 10, 64); err == nil {
		if err := h.db.First(&community, uint(id)).Error; err == nil {
			return &community, true
		}
	}
	if err := h.db.Where("slug = ?", param).First(&community).Error; err == nil {
		return &community, true
	}

	fail(c, http.StatusNotFound, "Community not found")
	return nil, false
}
