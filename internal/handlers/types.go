package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// defaultRangeDays is the trailing window used when the caller omits the
// from/to parameters
const defaultRangeDays = 30

// parseDateRange reads the from/to query parameters as YYYY-MM-DD dates.
// Missing parameters default to the trailing window ending today.
func parseDateRange(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -defaultRangeDays)
	to := now

	if v := c.QueryParam("from"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid 'from' date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid 'to' date, expected YYYY-MM-DD")
		}
		to = parsed
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "'to' must not be before 'from'")
	}

	return from, to, nil
}

// ItemizedTotals sums the gross/fee/net split for a range
type ItemizedTotals struct {
	GrossCents int64 `json:"gross_cents"`
	FeeCents   int64 `json:"fee_cents"`
	NetCents   int64 `json:"net_cents"`
}
