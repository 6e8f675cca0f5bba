package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workspace-service/internal/authz"
	"workspace-service/pkg/jwtutil"
	"workspace-service/pkg/logger"
)

// principalKey is the echo context key holding the authenticated principal
const principalKey = "principal"

// JWTAuthMiddleware validates the bearer token and stores the resulting
// Principal in the request context for the handlers
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid or expired token"})
			}

			if !authz.ValidRole(claims.Role) {
				log.Warn("Token carries unknown role", zap.String("role", claims.Role))
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid token claims"})
			}

			p := authz.Principal{
				UserID:   claims.UserID,
				TenantID: claims.TenantID,
				Email:    claims.Email,
				Role:     authz.Role(claims.Role),
			}
			c.Set(principalKey, p)
			log.Debug("JWT token validated",
				zap.String("user_id", p.UserID),
				zap.String("role", string(p.Role)))

			return next(c)
		}
	}
}

// PrincipalFrom extracts the authenticated principal placed in the context
// by JWTAuthMiddleware
func PrincipalFrom(c echo.Context) (authz.Principal, bool) {
	p, ok := c.Get(principalKey).(authz.Principal)
	return p, ok
}
