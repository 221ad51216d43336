package middleware

import (
	"errors"
	"strings"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware
const (
	ContextRole       = "role"
	ContextTerminalID = "terminal_id"
)

// AuthMiddleware validates the bearer token and stores role and terminal in the context
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if errors.Is(err, jwt.ErrTokenExpired) {
			response.Error(c, apperror.ErrTokenExpired)
			c.Abort()
			return
		}
		if err != nil || claims.TerminalID == "" {
			response.Error(c, apperror.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(ContextRole, claims.Role)
		c.Set(ContextTerminalID, claims.TerminalID)
		c.Next()
	}
}

// RequireArea rejects roles that may not use the given area
func RequireArea(area string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || !role.CanAccess(area) {
			response.Forbidden(c, "Your role cannot access "+area)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetRole returns the authenticated role
func GetRole(c *gin.Context) (enum.Role, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return enum.RoleCashier, false
	}
	role, ok := v.(enum.Role)
	return role, ok
}

// GetTerminalID returns the authenticated terminal, or "" outside authenticated routes
func GetTerminalID(c *gin.Context) string {
	return c.GetString(ContextTerminalID)
}
