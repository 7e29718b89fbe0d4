package models

import (
	"time"

	"gorm.io/gorm"
)

// FeeOverride is an admin-set amount (in dollars) for one student and fee
// type. It supersedes the standard schedule when no trustworthy real-paid
// amount exists. The amount column is text because the legacy admin tool
// stored whatever was typed in.
type FeeOverride struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID uint   `gorm:"index:idx_fee_overrides_student_fee" json:"student_id"`
	FeeType   string `gorm:"type:varchar(50);index:idx_fee_overrides_student_fee" json:"fee_type"`
	Amount    string `gorm:"type:varchar(50)" json:"amount"`
	SetBy     string `gorm:"type:varchar(255)" json:"set_by"`
}

// TableName specifies the table name for FeeOverride
func (FeeOverride) TableName() string {
	return "fee_overrides"
}
