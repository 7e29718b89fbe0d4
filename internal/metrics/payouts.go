package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"enrollpay_app/internal/reconcile"
)

// Payout statuses as stored on disbursement requests
const (
	PayoutStatusPending  = "pending"
	PayoutStatusApproved = "approved"
	PayoutStatusPaid     = "paid"
)

// PayoutRow is one disbursement request (university or affiliate), reduced
// to the fields the calculator needs. Amount is in dollars.
type PayoutRow struct {
	ID        uint
	Amount    float64
	Status    string
	CreatedAt time.Time
	PaidAt    *time.Time
}

// PayoutMetrics summarizes disbursements, tracked separately from
// student-paid revenue
type PayoutMetrics struct {
	Pending              int             `json:"pending"`
	Completed            int             `json:"completed"`
	UniversityTotalCents reconcile.Cents `json:"university_total_cents"`
	AffiliateTotalCents  reconcile.Cents `json:"affiliate_total_cents"`
}

// ComputePayouts aggregates disbursement requests for [from, to] inclusive.
// University rows arrive pre-filtered by the reader's date-ranged query;
// affiliate rows are filtered here with the settlement-date preference:
// PaidAt when the request is paid and the timestamp exists, CreatedAt
// otherwise. Historical paid rows do not all have PaidAt, hence the dual
// key.
func ComputePayouts(university, affiliate []PayoutRow, from, to time.Time) PayoutMetrics {
	start := day(from)
	end := day(to)

	var m PayoutMetrics

	for _, row := range university {
		tally(&m, row)
		if row.Status == PayoutStatusPaid {
			m.UniversityTotalCents += dollarsToCents(row.Amount)
		}
	}

	for _, row := range affiliate {
		d := day(settlementDate(row))
		if d.Before(start) || d.After(end) {
			continue
		}
		tally(&m, row)
		if row.Status == PayoutStatusPaid {
			m.AffiliateTotalCents += dollarsToCents(row.Amount)
		}
	}

	return m
}

func tally(m *PayoutMetrics, row PayoutRow) {
	switch row.Status {
	case PayoutStatusPending, PayoutStatusApproved:
		m.Pending++
	case PayoutStatusPaid:
		m.Completed++
	}
}

// settlementDate prefers PaidAt for paid requests when it is populated
func settlementDate(row PayoutRow) time.Time {
	if row.Status == PayoutStatusPaid && row.PaidAt != nil && !row.PaidAt.IsZero() {
		return *row.PaidAt
	}
	return row.CreatedAt
}

// dollarsToCents converts a decimal dollar amount to integer cents with
// half-up rounding, matching the PaymentRecord convention
func dollarsToCents(amount float64) reconcile.Cents {
	return reconcile.ToCents(decimal.NewFromFloat(amount))
}
