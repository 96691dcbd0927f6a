package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerDailyBroadcast runs the daily verse broadcast on demand and
// returns the tally. The scheduled job uses the same path.
func (ns *NotificationsHandler) TriggerDailyBroadcast(c *gin.Context) {
	result := ns.broadcaster.SendDailyBroadcast(c.Request.Context())
	c.JSON(http.StatusOK, result)
}
