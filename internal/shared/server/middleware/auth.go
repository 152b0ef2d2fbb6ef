package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docchat-backend/internal/shared/auth"
	"docchat-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userNameKey = "userName"
	rawTokenKey = "rawToken"
)

// Auth validates bearer tokens and stores the verified identity in context.
func Auth(authority *auth.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := authority.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrRevoked):
				respond.Error(c, http.StatusUnauthorized, "token_revoked", "token has been revoked", nil)
			case errors.Is(err, auth.ErrExpired):
				respond.Error(c, http.StatusUnauthorized, "token_expired", "token has expired", nil)
			default:
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			}
			return
		}

		c.Set(userIDKey, claims.SubjectID)
		if claims.FullName != "" {
			c.Set(userNameKey, claims.FullName)
		}
		c.Set(rawTokenKey, token)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserNameFromContext fetches the user's full name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}

// RawTokenFromContext fetches the bearer token string for logout.
func RawTokenFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(rawTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}
