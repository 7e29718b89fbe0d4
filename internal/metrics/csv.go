package metrics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// RenderCSV flattens an overview into metric_name,value rows for export
func RenderCSV(o Overview) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"metric_name", "value"},
		{"from", o.From},
		{"to", o.To},
		{"total_payments", strconv.Itoa(o.Summary.TotalPayments)},
		{"paid_payments", strconv.Itoa(o.Summary.PaidPayments)},
		{"conversion_rate", formatFloat(o.Summary.ConversionRate)},
		{"average_transaction_cents", strconv.FormatInt(int64(o.Summary.AverageTransactionCents), 10)},
		{"total_revenue_cents", strconv.FormatInt(int64(o.Summary.TotalRevenueCents), 10)},
		{"total_students", strconv.Itoa(o.Summary.TotalStudents)},
		{"payouts_pending", strconv.Itoa(o.Payouts.Pending)},
		{"payouts_completed", strconv.Itoa(o.Payouts.Completed)},
		{"university_payout_total_cents", strconv.FormatInt(int64(o.Payouts.UniversityTotalCents), 10)},
		{"affiliate_payout_total_cents", strconv.FormatInt(int64(o.Payouts.AffiliateTotalCents), 10)},
	}

	for _, m := range o.PaymentMethodBreakdown {
		rows = append(rows,
			[]string{fmt.Sprintf("method_%s_count", m.Method), strconv.Itoa(m.Count)},
			[]string{fmt.Sprintf("method_%s_revenue_cents", m.Method), strconv.FormatInt(int64(m.RevenueCents), 10)},
			[]string{fmt.Sprintf("method_%s_percentage", m.Method), formatFloat(m.Percentage)},
		)
	}
	for _, f := range o.FeeTypeBreakdown {
		rows = append(rows,
			[]string{fmt.Sprintf("fee_%s_count", f.FeeType), strconv.Itoa(f.Count)},
			[]string{fmt.Sprintf("fee_%s_revenue_cents", f.FeeType), strconv.FormatInt(int64(f.RevenueCents), 10)},
			[]string{fmt.Sprintf("fee_%s_percentage", f.FeeType), formatFloat(f.Percentage)},
		)
	}
	for _, b := range o.RevenueSeries {
		rows = append(rows,
			[]string{fmt.Sprintf("revenue_%s_cents", b.Date), strconv.FormatInt(int64(b.RevenueCents), 10)},
		)
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
