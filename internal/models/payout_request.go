package models

import (
	"time"

	"gorm.io/gorm"
)

// PayoutStatus represents the lifecycle of a disbursement request
type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusPaid     PayoutStatus = "paid"
	PayoutStatusRejected PayoutStatus = "rejected"
)

// UniversityPayoutRequest is a disbursement request from a partner university
type UniversityPayoutRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UniversityID uint         `gorm:"index" json:"university_id"`
	Amount       float64      `gorm:"type:decimal(12,2)" json:"amount"` // dollars
	Status       PayoutStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaidAt       *time.Time   `json:"paid_at"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
}

// TableName specifies the table name for UniversityPayoutRequest
func (UniversityPayoutRequest) TableName() string {
	return "university_payout_requests"
}

// AffiliatePayoutRequest is a commission disbursement request from an
// affiliate. Historical paid rows do not always have PaidAt populated,
// which is why payout filtering falls back to CreatedAt.
type AffiliatePayoutRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	AffiliateID uint         `gorm:"index" json:"affiliate_id"`
	Amount      float64      `gorm:"type:decimal(12,2)" json:"amount"` // dollars
	Status      PayoutStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaidAt      *time.Time   `json:"paid_at"`
}

// TableName specifies the table name for AffiliatePayoutRequest
func (AffiliatePayoutRequest) TableName() string {
	return "affiliate_payout_requests"
}
