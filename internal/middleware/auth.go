package middleware

import (
	"errors"
	"net/http"
	"strings"

	"reclamation-portal/internal/models"
	"reclamation-portal/internal/repository"
	"reclamation-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// userKey is the gin context key the resolved identity is stored
// under.
const userKey = "currentUser"

// SetCurrentUser attaches the resolved identity to the request
// context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the identity attached by Authenticate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// Authenticate creates a Gin middleware for JWT authentication. It
// verifies the bearer token and resolves the subject against the user
// store, so tokens of deleted accounts are rejected.
func Authenticate(tokens service.TokenService, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				c.Abort()
				return
			}
			logger.Warn("Invalid JWT token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
				c.Abort()
				return
			}
			logger.Error("Failed to resolve token subject", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireRoles gates a route on the authenticated user's role. An
// empty role list allows everyone through; otherwise any match
// authorizes. Must run after Authenticate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(roles) == 0 {
			c.Next()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
