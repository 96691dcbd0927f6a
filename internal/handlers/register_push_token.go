package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
	registertokenmodels "io.gospelera.push/internal/models/register_token"
)

// RegisterPushToken handles registering user device push tokens
func (ns *NotificationsHandler) RegisterPushToken(c *gin.Context) {
	var req registertokenmodels.RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	token := notificationsmodels.DeviceToken{
		UserID:     uid.(string),
		Platform:   req.Platform,
		Token:      req.Token,
		DailyVerse: req.DailyVerse,
	}

	// Web tokens must parse as subscriptions before they are stored, so
	// the dispatcher never loads one that cannot resolve.
	if _, err := token.Resolve(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid push subscription payload"})
		return
	}

	id, err := ns.registry.Upsert(c.Request.Context(), token)
	if err != nil {
		ns.logError(c, err, "failed to save device token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
		return
	}

	c.JSON(http.StatusOK, registertokenmodels.RegisterTokenResponse{
		Success: true,
		Message: "Token registered successfully",
		ID:      id,
	})
}
