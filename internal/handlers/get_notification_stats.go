package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetNotificationStats returns notification statistics for the requesting user
func (ns *NotificationsHandler) GetNotificationStats(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID := fmt.Sprintf("%v", uid)
	ctx := c.Request.Context()

	// Count daily verses received this week
	weekAgo := time.Now().AddDate(0, 0, -7)
	dailyVerseCount := 0
	for i := 0; i < 7; i++ {
		date := weekAgo.AddDate(0, 0, i)
		key := fmt.Sprintf("verse_sent:%s:%s", userID, date.Format("2006-01-02"))
		if ns.redisClient.Exists(ctx, key).Val() > 0 {
			dailyVerseCount++
		}
	}

	// Count event notifications (approximate from Redis keys)
	pattern := fmt.Sprintf("event_notification:%s:*", userID)
	eventKeys := ns.redisClient.Keys(ctx, pattern).Val()

	c.JSON(http.StatusOK, gin.H{
		"daily_verses_this_week": dailyVerseCount,
		"event_notifications":    len(eventKeys),
	})
}
