package middleware

import (
	"net/http"
	"strings"
	"time"

	"eduhealth_backend/internal/auth"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "userID"
	ContextUserKey   = "user"
)

// AuthMiddleware validates the bearer JWT and stores the user ID in the
// gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// LoadUserMiddleware resolves the authenticated user from storage and caches
// it in the gin context. Must run after AuthMiddleware.
func LoadUserMiddleware(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserIDKey)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// PremiumMiddleware gates premium-only routes. The expiry is re-checked at
// request time, not just the subscription flag.
func PremiumMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ContextUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		user, ok := val.(*models.User)
		if !ok || !user.HasActivePremium(time.Now()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Premium subscription required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user cached by LoadUserMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}
