package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"enrollpay_app/internal/metrics"
	"enrollpay_app/internal/services"
)

// MetricsHandler serves the reconciled financial metrics
type MetricsHandler struct {
	svc    *services.ReconciliationService
	reader *services.SourceReader
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(svc *services.ReconciliationService, reader *services.SourceReader) *MetricsHandler {
	return &MetricsHandler{svc: svc, reader: reader}
}

// Overview returns the full metrics object for a date range as JSON
func (h *MetricsHandler) Overview(c echo.Context) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	overview, err := h.svc.Overview(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute metrics overview")
	}

	return c.JSON(http.StatusOK, overview)
}

// ExportCSV returns the overview flattened to metric_name,value rows
func (h *MetricsHandler) ExportCSV(c echo.Context) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	overview, err := h.svc.Overview(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute metrics overview")
	}

	data, err := metrics.RenderCSV(overview)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render csv")
	}

	filename := fmt.Sprintf("financial-metrics-%s-%s.csv", overview.From, overview.To)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}

// Itemized returns the synced card-processor balance transactions for a
// range, with gross/fee/net totals
func (h *MetricsHandler) Itemized(c echo.Context) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return err
	}

	rows, err := h.reader.ListItemizedPayments(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list itemized payments")
	}

	var totals ItemizedTotals
	for _, row := range rows {
		totals.GrossCents += row.GrossCents
		totals.FeeCents += row.FeeCents
		totals.NetCents += row.NetCents
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": rows,
		"totals":   totals,
	})
}
