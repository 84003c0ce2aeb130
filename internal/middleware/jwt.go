package middleware

import (
	"context"  // Context for store lookups
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"creator_support/internal/store" // Store sentinel errors
	"creator_support/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "userID"

// TokenVersionSource returns the current token version of a user
type TokenVersionSource interface {
	TokenVersion(ctx context.Context, userID uint) (uint, error)
}

// JWTAuthMiddleware validates the token in the Authorization header and stores the user id.
// The header carries the raw token; a "Bearer " prefix is accepted and stripped.
func JWTAuthMiddleware(secret string, versions TokenVersionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		// Check if the Authorization header is present
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
			return
		}
		// A missing secret is a deployment problem, not a client one
		if secret == "" {
			logrus.Error("JWT_SECRET is not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server configuration error"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		// Reject tokens issued before the last sign-out or password change
		if versions != nil {
			current, err := versions.TokenVersion(c.Request.Context(), claims.UserID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				// Let the handler report the missing user
			case err != nil:
				logrus.WithFields(logrus.Fields{
					"user_id": claims.UserID,
					"error":   err.Error(),
				}).Error("Token version lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			case current != claims.TokenVersion:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token has been revoked"})
				return
			}
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Next()                        // Proceed to the next handler
	}
}

// UserID returns the authenticated user id stored by JWTAuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
