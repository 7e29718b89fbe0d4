package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"enrollpay_app/internal/reconcile"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestComputePayoutsAffiliateDatePreference(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	paidAt := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	row := PayoutRow{
		ID:        1,
		Amount:    250,
		Status:    PayoutStatusPaid,
		CreatedAt: created,
		PaidAt:    timePtr(paidAt),
	}

	march := ComputePayouts(nil, []PayoutRow{row},
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, march.Completed, "paid request settles on paid_at, not created_at")
	assert.Equal(t, reconcile.Cents(25000), march.AffiliateTotalCents)

	january := ComputePayouts(nil, []PayoutRow{row},
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0, january.Completed)
	assert.Equal(t, reconcile.Cents(0), january.AffiliateTotalCents)
}

func TestComputePayoutsPaidWithoutTimestampFallsBackToCreatedAt(t *testing.T) {
	row := PayoutRow{
		ID:        2,
		Amount:    100,
		Status:    PayoutStatusPaid,
		CreatedAt: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
	}

	m := ComputePayouts(nil, []PayoutRow{row},
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, m.Completed)
	assert.Equal(t, reconcile.Cents(10000), m.AffiliateTotalCents)
}

func TestComputePayoutsStatusTally(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	university := []PayoutRow{
		{ID: 1, Amount: 1000, Status: PayoutStatusPending, CreatedAt: from},
		{ID: 2, Amount: 2000, Status: PayoutStatusApproved, CreatedAt: from},
		{ID: 3, Amount: 3000, Status: PayoutStatusPaid, CreatedAt: from, PaidAt: timePtr(from.AddDate(0, 0, 5))},
	}
	affiliate := []PayoutRow{
		{ID: 4, Amount: 150, Status: PayoutStatusPending, CreatedAt: from.AddDate(0, 0, 2)},
		{ID: 5, Amount: 250, Status: PayoutStatusPaid, CreatedAt: from.AddDate(0, 0, 3)},
		{ID: 6, Amount: 350, Status: "rejected", CreatedAt: from.AddDate(0, 0, 4)},
	}

	m := ComputePayouts(university, affiliate, from, to)

	assert.Equal(t, 3, m.Pending, "pending and approved both count as outstanding")
	assert.Equal(t, 2, m.Completed)
	assert.Equal(t, reconcile.Cents(300000), m.UniversityTotalCents, "totals count paid requests only")
	assert.Equal(t, reconcile.Cents(25000), m.AffiliateTotalCents)
}

func TestComputePayoutsEmpty(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	m := ComputePayouts(nil, nil, from, to)
	assert.Equal(t, PayoutMetrics{}, m)
}

func TestComputePayoutsFractionalDollars(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	affiliate := []PayoutRow{
		{ID: 1, Amount: 99.99, Status: PayoutStatusPaid, CreatedAt: from},
	}

	m := ComputePayouts(nil, affiliate, from, to)
	assert.Equal(t, reconcile.Cents(9999), m.AffiliateTotalCents)
}
