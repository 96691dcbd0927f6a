package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	updateprefsmodels "io.gospelera.push/internal/models/update_preferences"
	"io.gospelera.push/internal/tokens"
)

// UpdateNotificationPrefs flips the daily verse opt-in flag on one of the
// user's device tokens
func (ns *NotificationsHandler) UpdateNotificationPrefs(c *gin.Context) {
	var req updateprefsmodels.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := ns.registry.SetDailyVersePref(c.Request.Context(), uid.(string), req.TokenID, *req.DailyVerse)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
			return
		}
		ns.logError(c, err, "failed to update notification preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated successfully"})
}
