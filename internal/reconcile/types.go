package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeeType is one of the four mandatory charges in the enrollment funnel
type FeeType string

const (
	FeeSelectionProcess FeeType = "selection_process"
	FeeApplication      FeeType = "application"
	FeeScholarship      FeeType = "scholarship"
	FeeI20Control       FeeType = "i20_control"
)

// AllFeeTypes lists every fee type in presentation order
var AllFeeTypes = []FeeType{FeeSelectionProcess, FeeApplication, FeeScholarship, FeeI20Control}

// Valid reports whether f is a known fee type
func (f FeeType) Valid() bool {
	switch f {
	case FeeSelectionProcess, FeeApplication, FeeScholarship, FeeI20Control:
		return true
	}
	return false
}

// PaymentMethod is how a fee was collected
type PaymentMethod string

const (
	MethodStripe PaymentMethod = "stripe"
	MethodZelle  PaymentMethod = "zelle"
	MethodManual PaymentMethod = "manual" // administrative marking, no electronic trace
)

// AllPaymentMethods lists every payment method in presentation order
var AllPaymentMethods = []PaymentMethod{MethodStripe, MethodZelle, MethodManual}

// SystemType selects which fee schedule applies to a student
type SystemType string

const (
	SystemLegacy     SystemType = "legacy"
	SystemSimplified SystemType = "simplified"
)

// Cents is a monetary amount in minor currency units
type Cents int64

// StatusPaid is the only record status this engine produces; unpaid or
// pending evidence is never synthesized into records.
const StatusPaid = "paid"

// recordSource identifies which stream produced a record. It drives the
// dedup tie-break and the record id, and is not exposed downstream.
type recordSource string

const (
	sourceApplication recordSource = "application"
	sourceZelle       recordSource = "zelle"
	sourceStripeOnly  recordSource = "stripe_only"
)

// PaymentRecord is the canonical unit of reconciled revenue. At most one
// record exists per (student, fee type) in the output set.
type PaymentRecord struct {
	ID            string        `json:"id"`
	StudentID     uint          `json:"student_id"`
	FeeType       FeeType       `json:"fee_type"`
	AmountCents   Cents         `json:"amount_cents"`
	Status        string        `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Namespace for deterministic record ids. Changing it changes every id, so
// it is fixed for the lifetime of the system.
var recordIDNamespace = uuid.MustParse("9f2c1b36-7a44-4d89-b6e3-52a0c1d4aa10")

// recordID derives a stable id from the identifying fields of a record.
// appID is zero for the fees that are global per student.
func recordID(studentID uint, fee FeeType, source recordSource, appID uint) string {
	key := fmt.Sprintf("%d|%s|%s|%d", studentID, fee, source, appID)
	return uuid.NewSHA1(recordIDNamespace, []byte(key)).String()
}
