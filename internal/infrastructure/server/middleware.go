package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goaltracker/core/internal/application/services"
)

// claimsKey mirrors the context key the handlers read claims from.
const claimsKey = "claims"

// authMiddleware validates the session token. The token is read from the
// auth cookie first so browser clients work without any header plumbing;
// a Bearer header is accepted as a fallback for API clients.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := ""

			if cookie, err := c.Cookie(s.config.JWT.CookieName); err == nil && cookie.Value != "" {
				tokenString = cookie.Value
			} else if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
				if tokenString == authHeader {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
				}
			}

			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(claimsKey, *claims)

			return next(c)
		}
	}
}
