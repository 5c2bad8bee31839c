package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
	"github.com/sangkips/counterpos/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	StaffIDKey    = "staff_id"
	StaffEmailKey = "staff_email"
	StaffRolesKey = "staff_roles"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(StaffEmailKey, claims.Email)
		c.Set(StaffRolesKey, claims.Roles)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(StaffRolesKey)
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		staffRoles, ok := value.([]string)
		if !ok || len(lo.Intersect(staffRoles, roles)) == 0 {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}

		c.Next()
	}
}
