package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// GetNotifications lists the authenticated user's notifications, newest
// first, with an unread count.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, _ := currentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var notifications []models.Notification
	if err := h.db.
		Preload("Sender").Preload("Post").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	var unread int64
	h.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(notifications),
		"data":    gin.H{"notifications": notifications, "unread_count": unread},
	})
}

// MarkAllRead marks every notification for the user as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := currentUserID(c)

	if err := h.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read"})
}

// MarkRead marks a single notification as read. Only the recipient can do it.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	userID, _ := currentUserID(c)

	var notification models.Notification
	if err := h.db.First(&notification, uint(id)).Error; err != nil {
		fail(c, http.StatusNotFound, "Notification not found")
		return
	}
	if notification.RecipientID != userID {
		fail(c, http.StatusForbidden, "Not authorized to update this notification")
		return
	}

	notification.Read = true
	if err := h.db.Save(&notification).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read", "data": notification})
}
