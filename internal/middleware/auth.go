package middleware

import (
	"errors"
	"net/http"
	"strings"

	"storefront-service/internal/model"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token from the Authorization header.
// A missing credential yields 401; a present but invalid or expired
// credential yields 403.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, jwtutil.ErrExpired) {
				log.Warn("Expired JWT token")
				prometheus.RecordAuthError("expired_token")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "token expired"})
			}
			log.Warn("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		return next(c)
	}
}

// RequireAdmin restricts a route group to admin and super_admin callers.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleSuperAdmin && role != model.RoleAdmin {
			logger.FromContext(c).Warn("Admin endpoint access denied", zap.String("role", role))
			prometheus.RecordAuthError("admin_access_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
		}
		return next(c)
	}
}

// RequireSuperAdmin restricts a route group to super_admin callers.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != model.RoleSuperAdmin {
			logger.FromContext(c).Warn("Super admin endpoint access denied", zap.String("role", role))
			prometheus.RecordAuthError("super_admin_access_denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "super admin access required"})
		}
		return next(c)
	}
}
