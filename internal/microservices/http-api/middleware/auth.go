package middleware

import (
	"errors"
	"net/http"

	"codeconnect/internal/logger"
	"codeconnect/internal/microservices/http-api/service"
	"codeconnect/internal/middleware/auth"
	"codeconnect/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware
const (
	IdentityKey = "identity"
	UserIDKey   = "userID"
)

// AuthMiddleware resolves the Bearer token into an identity, mirroring it into
// the users table, and rejects the request with 401 when that fails.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "No token provided")
			return
		}

		identity, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				abortUnauthorized(c, err.Error())
				return
			}
			logger.FromGin(c).Error("authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"data":    nil,
				"message": "Server error during authentication",
			})
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(UserIDKey, identity.ID)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by AuthMiddleware, or nil
func CurrentIdentity(c *gin.Context) *shared.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*shared.Identity)
	return identity
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"data":    nil,
		"message": message,
	})
}
