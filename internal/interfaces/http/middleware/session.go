package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"moneta.backend/internal/domain/entities"
	"moneta.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookieName is the cookie carrying the opaque session token
	SessionCookieName = "moneta_session"
	// UserKey is the context key for the resolved user
	UserKey = "user"
	// SessionKey is the context key for the resolved session
	SessionKey = "session"
)

// SessionResolver resolves an opaque session token to an identity. A nil
// identity with nil error means the token did not resolve.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entities.Identity, error)
}

// SessionMiddleware resolves the request's session token, if any, and
// attaches the identity to the context. Resolution is best effort: a
// missing, invalid, or expired token leaves the request anonymous and the
// chain continues. Only the guard decides whether anonymity is acceptable.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			identity, err := resolver.ResolveSession(c.Request.Context(), token)
			if err != nil {
				logger.Warn(c.Request.Context(), "session resolution failed", zap.Error(err))
			} else if identity != nil {
				c.Set(UserKey, identity.User)
				c.Set(SessionKey, identity.Session)
			}
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimPrefix(authHeader, BearerPrefix)
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// GetUser gets the resolved user from the gin context
func GetUser(c *gin.Context) (*entities.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entities.User)
	return user, ok
}

// GetSession gets the resolved session from the gin context
func GetSession(c *gin.Context) (*entities.Session, bool) {
	value, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*entities.Session)
	return session, ok
}
