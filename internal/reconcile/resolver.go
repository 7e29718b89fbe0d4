package reconcile

import "github.com/shopspring/decimal"

// ResolveInput is everything known about one (student, fee type) charge
type ResolveInput struct {
	FeeType    FeeType
	SystemType SystemType
	Dependents int

	// Override is the admin-set amount (dollars), if any
	Override *decimal.Decimal

	// RealPaid is the gross amount the card processor observed (dollars),
	// if any
	RealPaid *decimal.Decimal

	// ScholarshipAppFee is the per-scholarship application-fee
	// customization, if any
	ScholarshipAppFee *decimal.Decimal
}

// amountStrategy returns the resolved dollar amount and whether it applies.
// expected is the schedule-computed amount for the same input.
type amountStrategy func(in ResolveInput, expected decimal.Decimal) (decimal.Decimal, bool)

// Resolver computes the final charge amount for one (student, fee type)
// pair. Strategies are evaluated in a fixed priority order and the first
// applicable one wins; the chain always terminates because the schedule
// strategy applies unconditionally. Amount resolution has no failure path:
// implausible real-paid data falls through silently.
type Resolver struct {
	cfg        Config
	strategies []amountStrategy
}

// NewResolver builds a resolver with the standard priority chain:
// real-paid (tolerance-checked), then override, then schedule.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{cfg: cfg}
	r.strategies = []amountStrategy{
		r.realPaidAmount,
		r.overrideAmount,
		r.scheduleAmount,
	}
	return r
}

// Resolve returns the final charge in cents, never negative
func (r *Resolver) Resolve(in ResolveInput) Cents {
	expected := ScheduleAmount(r.cfg, ScheduleInput{
		FeeType:           in.FeeType,
		SystemType:        in.SystemType,
		Dependents:        in.Dependents,
		ScholarshipAppFee: in.ScholarshipAppFee,
	})

	for _, strategy := range r.strategies {
		if amount, ok := strategy(in, expected); ok {
			return ToCents(amount)
		}
	}

	// Unreachable: the schedule strategy always applies
	return 0
}

// realPaidAmount uses the processor-observed gross amount when it is
// positive and plausible against the schedule expectation
func (r *Resolver) realPaidAmount(in ResolveInput, expected decimal.Decimal) (decimal.Decimal, bool) {
	if in.RealPaid == nil || in.RealPaid.Sign() <= 0 {
		return decimal.Zero, false
	}
	if !withinTolerance(*in.RealPaid, expected, r.cfg.Tolerance) {
		// Likely a settlement matched to the wrong fee; fall through
		return decimal.Zero, false
	}
	return *in.RealPaid, true
}

// overrideAmount uses the admin-set amount when present
func (r *Resolver) overrideAmount(in ResolveInput, _ decimal.Decimal) (decimal.Decimal, bool) {
	if in.Override == nil {
		return decimal.Zero, false
	}
	return *in.Override, true
}

// scheduleAmount is the unconditional fallback
func (r *Resolver) scheduleAmount(_ ResolveInput, expected decimal.Decimal) (decimal.Decimal, bool) {
	return expected, true
}

// withinTolerance reports whether actual falls inside the relative band
// [expected*(1-tol), expected*(1+tol)]. A zero expectation accepts nothing,
// since any positive amount is infinitely far from it.
func withinTolerance(actual, expected decimal.Decimal, tol float64) bool {
	if expected.Sign() <= 0 {
		return false
	}
	band := expected.Mul(decimal.NewFromFloat(tol))
	diff := actual.Sub(expected).Abs()
	return diff.LessThanOrEqual(band)
}

// ToCents converts a dollar amount to integer cents with half-up rounding.
// Negative results clamp to zero; the engine never emits negative revenue.
func ToCents(d decimal.Decimal) Cents {
	c := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if c < 0 {
		return 0
	}
	return Cents(c)
}
