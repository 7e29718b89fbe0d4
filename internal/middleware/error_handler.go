package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CustomErrorHandler renders every error as a JSON envelope. The service is
// API-only, so there are no error pages to fall back to.
func CustomErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code

		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		} else {
			switch code {
			case http.StatusNotFound:
				message = "The requested resource doesn't exist."
			case http.StatusUnauthorized:
				message = "Authentication is required."
			case http.StatusForbidden:
				message = "You don't have permission to access this resource."
			case http.StatusBadRequest:
				message = "The request could not be processed."
			}
		}
	}

	// Log the error
	c.Logger().Error(err)

	if c.Response().Committed {
		return
	}

	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
