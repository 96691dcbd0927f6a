package handlers

import (
	"github.com/gin-gonic/gin"
)

func requestContextFields(c *gin.Context) []interface{} {
	uidVal, _ := c.Get("uid")
	uid := ""
	if s, ok := uidVal.(string); ok {
		uid = s
	}
	return []interface{}{
		"request_id", c.GetString("request_id"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"user_uid", uid,
	}
}

func (ns *NotificationsHandler) logError(c *gin.Context, err error, msg string, fields ...interface{}) {
	if ns.logger == nil {
		return
	}
	all := append(requestContextFields(c), append(fields, "error", err)...)
	ns.logger.Errorw(msg, all...)
}
