package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	removetokenmodels "io.gospelera.push/internal/models/remove_token"
)

// RemovePushToken handles explicit deregistration of a device token
func (ns *NotificationsHandler) RemovePushToken(c *gin.Context) {
	var req removetokenmodels.RemoveTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := ns.registry.Remove(c.Request.Context(), uid.(string), req.Token); err != nil {
		ns.logError(c, err, "failed to remove device token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token removed successfully"})
}
