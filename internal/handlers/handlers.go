package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/feed"
	"github.com/astroview/backend/internal/notify"
	"github.com/astroview/backend/internal/social"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Post         *PostHandler
	Comment      *CommentHandler
	Feed         *FeedHandler
	Community    *CommunityHandler
	Shop         *ShopHandler
	Event        *EventHandler
	Notification *NotificationHandler
	Stats        *StatsHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, sms *notify.SMSNotifier) *Handler {
	graph := social.NewStore(db)
	composer := feed.NewComposer(db, graph)

	return &Handler{
		Auth:         NewAuthHandler(db),
		User:         NewUserHandler(db, graph),
		Post:         NewPostHandler(db, graph),
		Comment:      NewCommentHandler(db, graph),
		Feed:         NewFeedHandler(composer),
		Community:    NewCommunityHandler(db),
		Shop:         NewShopHandler(db),
		Event:        NewEventHandler(db, sms),
		Notification: NewNotificationHandler(db),
		Stats:        NewStatsHandler(db),
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "admin"
}

// socialErrStatus maps the social/feed error taxonomy onto HTTP statuses:
// missing entities are 404, idempotency and validation conflicts are 400.
func socialErrStatus(err error) int {
	switch {
	case errors.Is(err, social.ErrUserNotFound),
		errors.Is(err, social.ErrPostNotFound),
		errors.Is(err, social.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, social.ErrSelfFollow),
		errors.Is(err, social.ErrAlreadyFollowing),
		errors.Is(err, social.ErrNotFollowing),
		errors.Is(err, social.ErrAlreadyLiked),
		errors.Is(err, social.ErrNotLiked):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func failErr(c *gin.Context, err error) {
	status := socialErrStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Server error"
	}
	fail(c, status, msg)
}
