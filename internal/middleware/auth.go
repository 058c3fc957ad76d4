package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"billing-service/pkg/jwtutil"
	"billing-service/pkg/logger"
)

// Context keys set by AuthMiddleware
const (
	ContextUsername  = "username"
	ContextRole      = "role"
	ContextSessionID = "session_id"
	ContextClaims    = "claims"
)

// AuthMiddleware validates the bearer token and stores the caller in the context
func AuthMiddleware(j *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := j.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(ContextUsername, claims.Username)
			c.Set(ContextRole, claims.Role)
			c.Set(ContextSessionID, claims.SessionID())
			c.Set(ContextClaims, claims)
			setLogger(c, log.With(zap.String("username", claims.Username), zap.String("role", claims.Role)))

			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			logger.FromContext(c).Warn("Role not permitted",
				zap.String("role", role),
				zap.String("path", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
		}
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(ContextClaims).(*jwtutil.UserClaims)
	return claims, ok
}

// SessionIDFromContext returns the login session of the caller
func SessionIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(ContextSessionID).(string)
	return id, ok && id != ""
}
