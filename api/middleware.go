package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/identity"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const identityKey = "identity"

// Auth verifies the bearer token and stores the caller's identity in the
// request context. Every verified caller is recorded in users.
func Auth(secret string, users repository.UserRepository, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, err := identity.ParseToken(secret, token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if users != nil {
			if err := users.Touch(c.Request.Context(), *id); err != nil {
				logger.Warn("record user", "user_id", id.ID, "error", err)
			}
		}

		c.Set(identityKey, *id)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || !id.Admin {
			abort(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

// RateLimit rejects requests with 429 once limiter is exhausted.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			abort(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func abort(c *gin.Context, code int, reason string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": reason})
}
