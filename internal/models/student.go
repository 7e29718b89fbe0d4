package models

import (
	"time"

	"gorm.io/gorm"
)

// Student represents an enrollment-funnel student (the payer)
type Student struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name  string `gorm:"type:varchar(255)" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone string `gorm:"type:varchar(50)" json:"phone"`

	// Billing profile
	SystemType string `gorm:"type:varchar(20)" json:"system_type"` // "legacy" or "simplified"
	Dependents int    `gorm:"default:0" json:"dependents"`

	// Fee-paid flags. Selection process and I-20 control are global per
	// student; application and scholarship fees are tracked per application.
	HasPaidSelectionProcessFee bool `gorm:"default:false" json:"has_paid_selection_process_fee"`
	IsApplicationFeePaid       bool `gorm:"default:false" json:"is_application_fee_paid"`
	IsScholarshipFeePaid       bool `gorm:"default:false" json:"is_scholarship_fee_paid"`
	HasPaidI20ControlFee       bool `gorm:"default:false" json:"has_paid_i20_control_fee"`

	// Per-fee payment method, e.g. "stripe", "zelle", "manual"
	SelectionProcessFeeMethod string `gorm:"type:varchar(50)" json:"selection_process_fee_method"`
	ApplicationFeeMethod      string `gorm:"type:varchar(50)" json:"application_fee_method"`
	ScholarshipFeeMethod      string `gorm:"type:varchar(50)" json:"scholarship_fee_method"`
	I20ControlFeeMethod       string `gorm:"type:varchar(50)" json:"i20_control_fee_method"`

	// Per-fee payment timestamps (not all historical rows have them)
	SelectionProcessFeePaidAt *time.Time `json:"selection_process_fee_paid_at"`
	ApplicationFeePaidAt      *time.Time `json:"application_fee_paid_at"`
	ScholarshipFeePaidAt      *time.Time `json:"scholarship_fee_paid_at"`
	I20ControlFeePaidAt       *time.Time `json:"i20_control_fee_paid_at"`

	// Relationships
	Applications []Application `gorm:"foreignKey:StudentID" json:"applications,omitempty"`
}

// TableName specifies the table name for Student
func (Student) TableName() string {
	return "students"
}
