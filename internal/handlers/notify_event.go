package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
	notifyeventmodels "io.gospelera.push/internal/models/notify_event"
)

// HandleNotifyEvent receives domain events from the application backend
// (new comment, new prayer commitment, moderation action) and fans the
// notification out to every targeted user's devices
func (ns *NotificationsHandler) HandleNotifyEvent(c *gin.Context) {
	var req notifyeventmodels.NotifyEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload := notificationsmodels.Payload{
		Title: req.Title,
		Body:  req.Body,
		Icon:  req.Icon,
		URL:   req.URL,
		Tag:   req.Tag,
	}
	if payload.Tag == "" {
		payload.Tag = req.Type
	}

	ns.notifier.NotifyUsers(c.Request.Context(), req.UserIDs, payload)

	// Track dispatched events for the stats endpoint
	if ns.redisClient != nil {
		for _, userID := range req.UserIDs {
			key := fmt.Sprintf("event_notification:%s:%d", userID, time.Now().UnixNano())
			ns.redisClient.Set(c.Request.Context(), key, req.Type, 24*time.Hour)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications dispatched", "users": len(req.UserIDs)})
}
