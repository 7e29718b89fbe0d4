package models

import (
	"time"

	"gorm.io/gorm"
)

// StripeSettlement records the gross amount the card processor actually
// charged for one student and fee type. This is the highest-priority amount
// source for reconciliation, subject to the reasonableness check.
type StripeSettlement struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID   uint      `gorm:"index:idx_stripe_settlements_student_fee" json:"student_id"`
	FeeType     string    `gorm:"type:varchar(50);index:idx_stripe_settlements_student_fee" json:"fee_type"`
	ChargeID    string    `gorm:"type:varchar(100);uniqueIndex" json:"charge_id"`
	GrossAmount float64   `gorm:"type:decimal(10,2)" json:"gross_amount"` // dollars
	ChargedAt   time.Time `gorm:"index" json:"charged_at"`
}

// TableName specifies the table name for StripeSettlement
func (StripeSettlement) TableName() string {
	return "stripe_settlements"
}

// ItemizedPayment is one balance-transaction row synced from the card
// processor, used for gross/fee/net enrichment reporting. Amounts are in
// cents as delivered by the processor.
type ItemizedPayment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	TransactionID string    `gorm:"type:varchar(100);uniqueIndex" json:"transaction_id"`
	ChargeID      string    `gorm:"type:varchar(100);index" json:"charge_id"`
	Description   string    `gorm:"type:varchar(255)" json:"description"`
	GrossCents    int64     `json:"gross_cents"`
	FeeCents      int64     `json:"fee_cents"`
	NetCents      int64     `json:"net_cents"`
	PaidAt        time.Time `gorm:"index" json:"paid_at"`
}

// TableName specifies the table name for ItemizedPayment
func (ItemizedPayment) TableName() string {
	return "itemized_payments"
}
