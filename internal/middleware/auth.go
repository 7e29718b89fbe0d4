package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// RequireAuth returns a middleware that verifies Firebase ID tokens from
// the Authorization header. The metrics API is consumed by the admin UI,
// so there are no anonymous routes behind it.
func RequireAuth(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if Firebase is initialized
			if authClient == nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication is not configured")
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" || token == header {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			decodedToken, err := authClient.VerifyIDToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			// Set user info in context for downstream handlers
			c.Set("userUID", decodedToken.UID)
			if email, ok := decodedToken.Claims["email"].(string); ok {
				c.Set("userEmail", email)
			}

			return next(c)
		}
	}
}
