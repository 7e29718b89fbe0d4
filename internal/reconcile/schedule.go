package reconcile

import "github.com/shopspring/decimal"

// Standard fee schedule, in dollars. The legacy system predates the
// simplified one and keeps dependent-scaled selection fees.
var (
	selectionBaseLegacy     = decimal.NewFromInt(400)
	selectionBaseSimplified = decimal.NewFromInt(350)
	selectionPerDependent   = decimal.NewFromInt(150) // legacy only

	applicationBase         = decimal.NewFromInt(350) // both systems
	applicationPerDependent = decimal.NewFromInt(100) // both systems

	scholarshipBaseLegacy     = decimal.NewFromInt(900)
	scholarshipBaseSimplified = decimal.NewFromInt(550)
)

// ScheduleInput carries everything the schedule needs for one fee
type ScheduleInput struct {
	FeeType    FeeType
	SystemType SystemType
	Dependents int

	// ScholarshipAppFee, when set, replaces the application-fee base with a
	// per-scholarship customization. The dependent surcharge still applies.
	ScholarshipAppFee *decimal.Decimal
}

// ScheduleAmount computes the standard schedule amount in dollars:
// base(system, fee) plus the dependent surcharge where one applies.
func ScheduleAmount(cfg Config, in ScheduleInput) decimal.Decimal {
	deps := in.Dependents
	if deps < 0 {
		deps = 0
	}
	nDeps := decimal.NewFromInt(int64(deps))

	switch in.FeeType {
	case FeeSelectionProcess:
		if in.SystemType == SystemSimplified {
			return selectionBaseSimplified
		}
		return selectionBaseLegacy.Add(selectionPerDependent.Mul(nDeps))

	case FeeApplication:
		base := applicationBase
		if in.ScholarshipAppFee != nil && in.ScholarshipAppFee.Sign() > 0 {
			base = *in.ScholarshipAppFee
		}
		return base.Add(applicationPerDependent.Mul(nDeps))

	case FeeScholarship:
		if in.SystemType == SystemSimplified {
			return scholarshipBaseSimplified
		}
		return scholarshipBaseLegacy

	case FeeI20Control:
		return cfg.I20ControlFee
	}

	return decimal.Zero
}
