package middleware

import (
	"net/http"                       // HTTP status codes
	"pigment_catalog/internal/utils" // Session utilities

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// SessionAuthMiddleware resolves the session cookie and rejects the
// request if it does not identify a live session
func SessionAuthMiddleware(rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(utils.SessionCookieName) // Get session cookie
		// Check if the cookie is present
		if err != nil || tokenStr == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		userID, ok := utils.ResolveSession(c.Request.Context(), rdb, tokenStr, secret)
		if !ok {
			// Token invalid or session revoked, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		c.Set("userID", userID) // Store userID in context
		c.Next()                // Proceed to the next handler
	}
}

// OptionalSessionMiddleware resolves the session cookie if present but
// lets anonymous requests through. Public catalog views use it to flag
// which pigments the current user has saved.
func OptionalSessionMiddleware(rdb *redis.Client, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(utils.SessionCookieName) // Get session cookie
		if err == nil && tokenStr != "" {
			// Only set the identity if the session is live
			if userID, ok := utils.ResolveSession(c.Request.Context(), rdb, tokenStr, secret); ok {
				c.Set("userID", userID) // Store userID in context
			}
		}
		c.Next() // Proceed either way
	}
}
