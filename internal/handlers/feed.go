package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/astroview/backend/internal/feed"
	"github.com/astroview/backend/internal/models"
)

type FeedHandler struct {
	composer *feed.Composer
}

func NewFeedHandler(composer *feed.Composer) *FeedHandler {
	return &FeedHandler{composer: composer}
}

// GetFeed returns the authenticated user's personalized feed: posts from
// followed users plus public posts, newest first.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.composer.Generate(c.Request.Context(), userID, page, limit)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   result.Count,
		"total":   result.Total,
		"page":    result.Page,
		"pages":   result.Pages,
		"data":    result.Posts,
	})
}

// GetSuggestedUsers returns accounts the user does not follow yet, most
// followed first.
func (h *FeedHandler) GetSuggestedUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 || limit > 20 {
		limit = 5
	}

	users, err := h.composer.SuggestedUsers(c.Request.Context(), userID, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "data": users})
}
