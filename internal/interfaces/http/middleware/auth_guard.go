package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "moneta.backend/internal/domain/errors"
)

// RequireAuth gates the chain on a resolved session. It performs no
// resolution itself; SessionMiddleware must run earlier.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, hasUser := GetUser(c)
		_, hasSession := GetSession(c)
		if !hasUser || !hasSession {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    domainerrors.CodeAuthRequired,
					"message": "Authentication required",
				},
				"message": "Authentication required",
			})
			return
		}

		c.Next()
	}
}

// OptionalAuth documents that a route works with or without a session. It
// never blocks.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
