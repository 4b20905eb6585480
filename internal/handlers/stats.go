package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
)

type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// GetStats returns site-wide counts for the landing page.
func (h *StatsHandler) GetStats(c *gin.Context) {
	var (
		totalMembers     int64
		totalPosts       int64
		totalImages      int64
		totalCommunities int64
		totalEvents      int64
	)

	h.db.Model(&models.User{}).Count(&totalMembers)
	h.db.Model(&models.Post{}).Count(&totalPosts)
	h.db.Model(&models.PostImage{}).Count(&totalImages)
	h.db.Model(&models.Community{}).Count(&totalCommunities)
	h.db.Model(&models.CelestialEvent{}).
		Where("status = ?", models.EventStatusApproved).Count(&totalEvents)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_members":     totalMembers,
			"total_posts":       totalPosts,
			"total_images":      totalImages,
			"total_communities": totalCommunities,
			"total_events":      totalEvents,
		},
	})
}
