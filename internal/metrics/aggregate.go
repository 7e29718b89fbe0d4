package metrics

import (
	"time"

	"enrollpay_app/internal/reconcile"
)

// RevenueBucket is one calendar day of the revenue series
type RevenueBucket struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	RevenueCents reconcile.Cents `json:"revenue_cents"`
	Payments     int             `json:"payments"`
}

// MethodBreakdown is the revenue share of one payment method
type MethodBreakdown struct {
	Method       reconcile.PaymentMethod `json:"method"`
	Count        int                     `json:"count"`
	RevenueCents reconcile.Cents         `json:"revenue_cents"`
	Percentage   float64                 `json:"percentage"`
}

// FeeTypeBreakdown is the revenue share of one fee type
type FeeTypeBreakdown struct {
	FeeType      reconcile.FeeType `json:"fee_type"`
	Count        int               `json:"count"`
	RevenueCents reconcile.Cents   `json:"revenue_cents"`
	Percentage   float64           `json:"percentage"`
}

// Summary holds the headline metrics
type Summary struct {
	TotalPayments           int             `json:"total_payments"`
	PaidPayments            int             `json:"paid_payments"`
	ConversionRate          float64         `json:"conversion_rate"`
	AverageTransactionCents reconcile.Cents `json:"average_transaction_cents"`
	TotalRevenueCents       reconcile.Cents `json:"total_revenue_cents"`
	TotalStudents           int             `json:"total_students"`
}

// Overview is the full result object handed to the UI and export layers
type Overview struct {
	From                   string             `json:"from"`
	To                     string             `json:"to"`
	RevenueSeries          []RevenueBucket    `json:"revenue_series"`
	PaymentMethodBreakdown []MethodBreakdown  `json:"payment_method_breakdown"`
	FeeTypeBreakdown       []FeeTypeBreakdown `json:"fee_type_breakdown"`
	Summary                Summary            `json:"summary"`
	Payouts                PayoutMetrics      `json:"payouts"`
}

const dayLayout = "2006-01-02"

// day truncates t to its UTC calendar day
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Aggregate turns the reconciled record set into the overview object.
// totalStudents is the full roster count, independent of payment activity.
// Records outside [from, to] (by calendar day, inclusive) are ignored so
// the series, breakdowns, and summary always describe the same set.
func Aggregate(records []reconcile.PaymentRecord, totalStudents int, from, to time.Time) Overview {
	start := day(from)
	end := day(to)

	inRange := make([]reconcile.PaymentRecord, 0, len(records))
	for _, r := range records {
		d := day(r.CreatedAt)
		if d.Before(start) || d.After(end) {
			continue
		}
		inRange = append(inRange, r)
	}

	o := Overview{
		From:          start.Format(dayLayout),
		To:            end.Format(dayLayout),
		RevenueSeries: revenueSeries(inRange, start, end),
	}

	var total reconcile.Cents
	paid := 0
	byMethod := make(map[reconcile.PaymentMethod]*MethodBreakdown)
	byFee := make(map[reconcile.FeeType]*FeeTypeBreakdown)
	for _, r := range inRange {
		total += r.AmountCents
		if r.Status == reconcile.StatusPaid {
			paid++
		}

		m := byMethod[r.PaymentMethod]
		if m == nil {
			m = &MethodBreakdown{Method: r.PaymentMethod}
			byMethod[r.PaymentMethod] = m
		}
		m.Count++
		m.RevenueCents += r.AmountCents

		f := byFee[r.FeeType]
		if f == nil {
			f = &FeeTypeBreakdown{FeeType: r.FeeType}
			byFee[r.FeeType] = f
		}
		f.Count++
		f.RevenueCents += r.AmountCents
	}

	// Fixed enum order keeps the output reproducible run to run
	o.PaymentMethodBreakdown = make([]MethodBreakdown, 0, len(byMethod))
	for _, method := range reconcile.AllPaymentMethods {
		if m, ok := byMethod[method]; ok {
			m.Percentage = percentage(m.RevenueCents, total)
			o.PaymentMethodBreakdown = append(o.PaymentMethodBreakdown, *m)
		}
	}
	o.FeeTypeBreakdown = make([]FeeTypeBreakdown, 0, len(byFee))
	for _, fee := range reconcile.AllFeeTypes {
		if f, ok := byFee[fee]; ok {
			f.Percentage = percentage(f.RevenueCents, total)
			o.FeeTypeBreakdown = append(o.FeeTypeBreakdown, *f)
		}
	}

	o.Summary = Summary{
		TotalPayments:     len(inRange),
		PaidPayments:      paid,
		TotalRevenueCents: total,
		TotalStudents:     totalStudents,
	}
	if len(inRange) > 0 {
		o.Summary.ConversionRate = float64(paid) / float64(len(inRange)) * 100
	}
	if paid > 0 {
		o.Summary.AverageTransactionCents = total / reconcile.Cents(paid)
	}

	return o
}

// revenueSeries builds one bucket per calendar day, inclusive on both ends.
// Days with no activity still appear with zeros so chart consumers never
// have to backfill gaps.
func revenueSeries(records []reconcile.PaymentRecord, start, end time.Time) []RevenueBucket {
	if end.Before(start) {
		return []RevenueBucket{}
	}

	byDay := make(map[string]*RevenueBucket)
	for _, r := range records {
		k := day(r.CreatedAt).Format(dayLayout)
		b := byDay[k]
		if b == nil {
			b = &RevenueBucket{Date: k}
			byDay[k] = b
		}
		b.RevenueCents += r.AmountCents
		b.Payments++
	}

	var series []RevenueBucket
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		k := d.Format(dayLayout)
		if b, ok := byDay[k]; ok {
			series = append(series, *b)
		} else {
			series = append(series, RevenueBucket{Date: k})
		}
	}
	return series
}

// percentage is zero-safe: an empty total yields 0, never NaN
func percentage(part, total reconcile.Cents) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
