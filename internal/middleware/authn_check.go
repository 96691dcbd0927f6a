package middleware

import (
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	firebaseutil "io.gospelera.push/internal/firebase"
)

// AuthMiddleware verifies the Firebase bearer token and sets the user uid
// in the request context
func AuthMiddleware(firebaseApp *firebase.App, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check if header starts with "Bearer "
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		// Extract token
		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}

		authClient, err := firebaseutil.GetAuthClient(firebaseApp)
		if err != nil {
			logger.Errorw("auth client unavailable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication unavailable"})
			c.Abort()
			return
		}

		idToken, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Set user UID in context for use in handlers
		c.Set("uid", idToken.UID)
		c.Next()
	}
}
