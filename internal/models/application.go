package models

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus represents the status of a scholarship application
type ApplicationStatus string

const (
	ApplicationStatusDraft    ApplicationStatus = "draft"
	ApplicationStatusActive   ApplicationStatus = "active"
	ApplicationStatusEnrolled ApplicationStatus = "enrolled"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application links a student to a scholarship at a university
type Application struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	StudentID     uint              `gorm:"index" json:"student_id"`
	ScholarshipID uint              `gorm:"index" json:"scholarship_id"`
	UniversityID  uint              `gorm:"index" json:"university_id"`
	Status        ApplicationStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`

	// Relationships
	Student     Student     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID" json:"scholarship,omitempty"`
	University  University  `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
}

// Scholarship represents a scholarship program offered through the platform
type Scholarship struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name         string `gorm:"type:varchar(255)" json:"name"`
	UniversityID uint   `gorm:"index" json:"university_id"`

	// Optional per-scholarship application fee that replaces the schedule
	// base amount for the application fee only
	ApplicationFeeAmount *float64 `gorm:"type:decimal(10,2)" json:"application_fee_amount"`
}

// University represents a partner university
type University struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name string `gorm:"type:varchar(255)" json:"name"`
}
