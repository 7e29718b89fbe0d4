package reconcile

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// defaultExcludedScholarshipID is a known data anomaly: records tied to this
// scholarship must never produce scholarship-fee revenue. The value is
// inherited from the production data set, not derived from any rule.
const defaultExcludedScholarshipID uint = 127

// defaultTolerance is the reasonableness band for real-paid amounts. A gross
// amount further than 50% from the expected schedule amount is treated as a
// mismatched settlement and discarded.
const defaultTolerance = 0.5

// Config carries the tunable parameters of the reconciliation engine
type Config struct {
	// I20ControlFee is the schedule amount (dollars) for the I-20 control
	// fee, which is priced outside the static table.
	I20ControlFee decimal.Decimal

	// Tolerance is the relative band for the real-paid reasonableness check
	Tolerance float64

	// ExcludedScholarshipID disables scholarship-fee emission for one
	// scholarship entirely
	ExcludedScholarshipID uint

	// ShouldExclude filters synthetic/test accounts out of every pass.
	// Nil means no exclusion.
	ShouldExclude func(studentID uint) bool
}

// DefaultConfig returns the production parameter set
func DefaultConfig() Config {
	return Config{
		I20ControlFee:         decimal.NewFromInt(900),
		Tolerance:             defaultTolerance,
		ExcludedScholarshipID: defaultExcludedScholarshipID,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults for anything unset or malformed.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("I20_CONTROL_FEE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.Sign() > 0 {
			cfg.I20ControlFee = d
		}
	}
	if v := os.Getenv("REAL_PAID_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Tolerance = f
		}
	}
	if v := os.Getenv("EXCLUDED_SCHOLARSHIP_ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.ExcludedScholarshipID = uint(id)
		}
	}

	return cfg
}
