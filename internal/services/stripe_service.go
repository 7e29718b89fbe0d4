package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/balancetransaction"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"enrollpay_app/internal/models"
)

// StripeService syncs balance transactions from the card processor into the
// itemized_payments table for gross/fee/net reporting. Reconciliation never
// depends on it; settlement evidence reaches the engine through the
// stripe_settlements rows.
type StripeService struct {
	configured bool
}

// NewStripeService reads the API key from the environment. An unset key
// leaves the service disabled rather than failing startup.
func NewStripeService() *StripeService {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not set, itemized payment sync disabled")
		return &StripeService{}
	}
	stripe.Key = key
	return &StripeService{configured: true}
}

// SyncItemizedPayments pulls charge balance transactions for [from, to] and
// upserts them as ItemizedPayment rows. Returns the number of rows synced.
func (s *StripeService) SyncItemizedPayments(db *gorm.DB, from, to time.Time) (int, error) {
	if !s.configured {
		return 0, fmt.Errorf("stripe is not configured")
	}

	params := &stripe.BalanceTransactionListParams{
		Type: stripe.String("charge"),
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: from.Unix(),
			LesserThan:         to.AddDate(0, 0, 1).Unix(),
		},
	}
	params.Limit = stripe.Int64(100)

	synced := 0
	iter := balancetransaction.List(params)
	for iter.Next() {
		bt := iter.BalanceTransaction()

		row := models.ItemizedPayment{
			TransactionID: bt.ID,
			Description:   bt.Description,
			GrossCents:    bt.Amount,
			FeeCents:      bt.Fee,
			NetCents:      bt.Net,
			PaidAt:        time.Unix(bt.Created, 0).UTC(),
		}
		if bt.Source != nil {
			row.ChargeID = bt.Source.ID
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gross_cents", "fee_cents", "net_cents", "paid_at", "description"}),
		}).Create(&row).Error
		if err != nil {
			log.Printf("Warning: failed to upsert balance transaction %s: %v", bt.ID, err)
			continue
		}
		synced++
	}
	if err := iter.Err(); err != nil {
		return synced, fmt.Errorf("stripe balance transaction list error: %w", err)
	}

	return synced, nil
}
