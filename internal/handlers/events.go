package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/notify"
)

type EventHandler struct {
	db  *gorm.DB
	sms *notify.SMSNotifier
}

func NewEventHandler(db *gorm.DB, sms *notify.SMSNotifier) *EventHandler {
	return &EventHandler{db: db, sms: sms}
}

// GetEvents lists celestial events with optional filters:
// ?type=, ?upcoming=true, ?start=, ?end= (YYYY-MM-DD), ?status= (admin only).
// Regular callers only ever see approved events.
func (h *EventHandler) GetEvents(c *gin.Context) {
	query := h.db.Model(&models.CelestialEvent{}).Preload("CreatedBy")

	if isAdmin(c) {
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
	} else {
		query = query.Where("status = ?", models.EventStatusApproved)
	}

	if eventType := c.Query("type"); eventType != "" {
		query = query.Where("type = ?", eventType)
	}
	if c.Query("upcoming") == "true" {
		query = query.Where("start_date >= ?", time.Now())
	}
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			query = query.Where("start_date >= ?", t)
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			query = query.Where("start_date <= ?", t.Add(24*time.Hour))
		}
	}

	var events []models.CelestialEvent
	if err := query.Order("start_date ASC").Find(&events).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch events")
		return
	}
	if events == nil {
		events = []models.CelestialEvent{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(events), "data": events})
}

// GetEvent returns a single event. Pending and rejected events are visible
// only to admins and to their submitter.
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, ok := h.findEvent(c)
	if !ok {
		return
	}

	if event.Status != models.EventStatusApproved && !isAdmin(c) {
		userID, authed := currentUserID(c)
		if !authed || event.CreatedByID != userID {
			fail(c, http.StatusNotFound, "Event not found")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": event})
}

// CreateEvent submits an event for moderation. Admin submissions are
// approved immediately; everyone else's start out pending and trigger an
// SMS to the site admin.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req struct {
		Name          string   `json:"name" binding:"required"`
		Type          string   `json:"type" binding:"required"`
		Description   string   `json:"description"`
		StartDate     string   `json:"start_date" binding:"required"`
		EndDate       string   `json:"end_date"`
		PeakTime      string   `json:"peak_time"`
		Visibility    string   `json:"visibility"`
		Magnitude     *float64 `json:"magnitude"`
		Constellation string   `json:"constellation"`
		RA            string   `json:"ra"`
		Dec           string   `json:"dec"`
		Tips          string   `json:"tips"`
		ImageURL      string   `json:"image_url"`
		Source        string   `json:"source"`
		ExternalLink  string   `json:"external_link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Name, type and start date are required")
		return
	}

	startDate, err := parseEventTime(req.StartDate)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid start date")
		return
	}

	event := models.CelestialEvent{
		Name:          req.Name,
		Type:          req.Type,
		Description:   req.Description,
		StartDate:     startDate,
		Magnitude:     req.Magnitude,
		Constellation: req.Constellation,
		RA:            req.RA,
		Dec:           req.Dec,
		Tips:          req.Tips,
		ImageURL:      req.ImageURL,
		ExternalLink:  req.ExternalLink,
		Status:        models.EventStatusPending,
		CreatedByID:   userID,
	}
	if req.Visibility != "" {
		event.Visibility = req.Visibility
	}
	if req.Source != "" {
		event.Source = req.Source
	}
	if req.EndDate != "" {
		if t, err := parseEventTime(req.EndDate); err == nil {
			event.EndDate = &t
		}
	}
	if req.PeakTime != "" {
		if t, err := parseEventTime(req.PeakTime); err == nil {
			event.PeakTime = &t
		}
	}

	if isAdmin(c) {
		now := time.Now()
		event.Status = models.EventStatusApproved
		event.ApprovedByID = &userID
		event.ApprovedAt = &now
	}

	if err := h.db.Create(&event).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create event")
		return
	}

	if event.Status == models.EventStatusPending && h.sms.Enabled() {
		var submitter models.User
		h.db.First(&submitter, userID)
		go h.sms.EventSubmitted(event.Name, submitter.Username)
	}

	message := "Event submitted for review"
	if event.Status == models.EventStatusApproved {
		message = "Event created successfully"
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": event})
}

// UpdateEvent edits an event. Admin only.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	event, ok := h.findEvent(c)
	if !ok {
		return
	}

	var req struct {
		Name          string   `json:"name"`
		Type          string   `json:"type"`
		Description   string   `json:"description"`
		StartDate     string   `json:"start_date"`
		EndDate       string   `json:"end_date"`
		Visibility    string   `json:"visibility"`
		Magnitude     *float64 `json:"magnitude"`
		Constellation string   `json:"constellation"`
		Tips          string   `json:"tips"`
		ImageURL      string   `json:"image_url"`
		ExternalLink  string   `json:"external_link"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Type != "" {
		event.Type = req.Type
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.StartDate != "" {
		if t, err := parseEventTime(req.StartDate); err == nil {
			event.StartDate = t
		}
	}
	if req.EndDate != "" {
		if t, err := parseEventTime(req.EndDate); err == nil {
			event.EndDate = &t
		}
	}
	if req.Visibility != "" {
		event.Visibility = req.Visibility
	}
	if req.Magnitude != nil {
		event.Magnitude = req.Magnitude
	}
	if req.Constellation != "" {
		event.Constellation = req.Constellation
	}
	if req.Tips != "" {
		event.Tips = req.Tips
	}
	if req.ImageURL != "" {
		event.ImageURL = req.ImageURL
	}
	if req.ExternalLink != "" {
		event.ExternalLink = req.ExternalLink
	}

	if err := h.db.Save(event).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event updated successfully", "data": event})
}

// DeleteEvent removes an event. Admin only.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := h.findEvent(c)
	if !ok {
		return
	}

	if err := h.db.Delete(&models.CelestialEvent{}, event.ID).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event deleted successfully"})
}

// GetPendingEvents lists events awaiting moderation, oldest first. Admin only.
func (h *EventHandler) GetPendingEvents(c *gin.Context) {
	var events []models.CelestialEvent
	if err := h.db.Preload("CreatedBy").
		Where("status = ?", models.EventStatusPending).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch pending events")
		return
	}
	if events == nil {
		events = []models.CelestialEvent{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(events), "data": events})
}

// ApproveEvent marks a pending event approved. Admin only.
func (h *EventHandler) ApproveEvent(c *gin.Context) {
	event, ok := h.findEvent(c)
	if !ok {
		return
	}
	if event.Status == models.EventStatusApproved {
		fail(c, http.StatusBadRequest, "Event is already approved")
		return
	}

	adminID, _ := currentUserID(c)
	now := time.Now()
	event.Status = models.EventStatusApproved
	event.ApprovedByID = &adminID
	event.ApprovedAt = &now
	event.RejectionReason = ""

	if err := h.db.Save(event).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to approve event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event approved successfully", "data": event})
}

// RejectEvent marks a pending event rejected with a reason. Admin only.
func (h *EventHandler) RejectEvent(c *gin.Context) {
	event, ok := h.findEvent(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	c.ShouldBindJSON(&req)

	event.Status = models.EventStatusRejected
	event.RejectionReason = req.Reason
	event.ApprovedByID = nil
	event.ApprovedAt = nil

	if err := h.db.Save(event).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to reject event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event rejected", "data": event})
}

func (h *EventHandler) findEvent(c *gin.Context) (*models.CelestialEvent, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid event ID")
		return nil, false
	}

	var event models.CelestialEvent
	if err := h.db.Preload("CreatedBy").First(&event, uint(id)).Error; err != nil {
		fail(c, http.StatusNotFound, "Event not found")
		return nil, false
	}
	return &event, true
}

// parseEventTime accepts either a full RFC 3339 timestamp or a bare date.
func parseEventTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
