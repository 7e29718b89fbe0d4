package models

import (
	"time"

	"gorm.io/gorm"
)

// ZellePaymentStatus represents the review status of a manual transfer
type ZellePaymentStatus string

const (
	ZellePaymentStatusPending  ZellePaymentStatus = "pending"
	ZellePaymentStatusApproved ZellePaymentStatus = "approved"
	ZellePaymentStatusRejected ZellePaymentStatus = "rejected"
)

// ZellePayment is one row of the manual-transfer ledger. Rows are entered by
// admins from bank statements, so the fee tag and amount come in as free text.
type ZellePayment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID  uint               `gorm:"index" json:"student_id"`
	FeeTypeTag string             `gorm:"type:varchar(100)" json:"fee_type_tag"` // e.g. "selection process", "application_fee"
	Amount     string             `gorm:"type:varchar(50)" json:"amount"`        // free-text dollar amount from the statement
	Reference  string             `gorm:"type:varchar(255)" json:"reference"`
	Status     ZellePaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// TableName specifies the table name for ZellePayment
func (ZellePayment) TableName() string {
	return "zelle_payments"
}
