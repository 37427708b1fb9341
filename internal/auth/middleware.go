package auth

import (
	"errors"
	"net/http"
	"strings"

	"gymhub/internal/api"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Abort(c, http.StatusUnauthorized, "Token is empty")
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				api.Abort(c, http.StatusUnauthorized, "Token expired")
			} else {
				api.Abort(c, http.StatusUnauthorized, "Invalid or malformed token")
			}
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through when the caller has any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			api.Abort(c, http.StatusUnauthorized, "User role not found")
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Abort(c, http.StatusUnauthorized, "Invalid role type")
			return
		}

		for _, r := range roles {
			if roleStr == r {
				c.Next()
				return
			}
		}
		api.Abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	return id, ok
}

func GetRole(c *gin.Context) string {
	return c.GetString("user_role")
}
