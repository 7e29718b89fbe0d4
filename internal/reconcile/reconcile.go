package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FeeFlag is the payment evidence a source row carries for one fee type
type FeeFlag struct {
	Paid   bool
	Method string // raw per-fee payment-method field, may be empty
	PaidAt *time.Time
}

// ApplicationRow is one application with its student-level payment evidence.
// Rows come out of the boundary normalization step, already typed.
type ApplicationRow struct {
	ApplicationID uint
	StudentID     uint
	ScholarshipID uint

	Dependents        int
	ScholarshipAppFee *decimal.Decimal

	SelectionProcess FeeFlag
	Application      FeeFlag
	Scholarship      FeeFlag
	I20Control       FeeFlag

	CreatedAt time.Time
}

// TransferRow is one approved manual-transfer ledger row
type TransferRow struct {
	ID        uint
	StudentID uint
	FeeTag    string // free text, normalized by NormalizeFeeTag
	CreatedAt time.Time
}

// StripeOnlyRow is a student flagged as paid by the card processor with no
// application row and no transfer evidence backing it up
type StripeOnlyRow struct {
	StudentID  uint
	Dependents int

	SelectionProcess FeeFlag
	Application      FeeFlag
	Scholarship      FeeFlag
	I20Control       FeeFlag

	CreatedAt time.Time
}

// Inputs is the full evidence set for one reconciliation pass. All maps are
// optional; a missing lookup is "no evidence".
type Inputs struct {
	Applications []ApplicationRow
	Transfers    []TransferRow
	StripeOnly   []StripeOnlyRow

	Overrides   map[uint]map[FeeType]decimal.Decimal
	SystemTypes map[uint]SystemType
	RealPaid    map[uint]map[FeeType]decimal.Decimal

	// Dependents by student id, for streams whose rows do not embed the
	// student profile (the transfer ledger)
	Dependents map[uint]int
}

// Engine reconciles payment evidence from the three source streams into one
// canonical record set. It is a pure transformation: no I/O, no shared
// state, same inputs always produce the same multiset of records.
type Engine struct {
	cfg      Config
	resolver *Resolver
}

// NewEngine creates an engine with the given parameters
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, resolver: NewResolver(cfg)}
}

type pairKey struct {
	studentID uint
	fee       FeeType
}

type appPairKey struct {
	studentID uint
	fee       FeeType
	appID     uint
}

// passState is the explicit "already emitted" accumulator threaded through
// the three passes. Checking it before every emit is what guarantees the
// at-most-one-record invariant without a second dedup sweep.
type passState struct {
	pairs   map[pairKey]struct{}
	appKeys map[appPairKey]struct{}
	records []PaymentRecord
}

func newPassState() *passState {
	return &passState{
		pairs:   make(map[pairKey]struct{}),
		appKeys: make(map[appPairKey]struct{}),
	}
}

func (s *passState) hasPair(studentID uint, fee FeeType) bool {
	_, ok := s.pairs[pairKey{studentID, fee}]
	return ok
}

func (s *passState) hasAppKey(studentID uint, fee FeeType, appID uint) bool {
	_, ok := s.appKeys[appPairKey{studentID, fee, appID}]
	return ok
}

func (s *passState) emit(rec PaymentRecord, appID uint) {
	s.pairs[pairKey{rec.StudentID, rec.FeeType}] = struct{}{}
	if appID != 0 {
		s.appKeys[appPairKey{rec.StudentID, rec.FeeType, appID}] = struct{}{}
	}
	s.records = append(s.records, rec)
}

// Reconcile walks the three source streams in priority order (application,
// then manual transfer, then card-processor only) and emits one canonical
// PaymentRecord per (student, fee type) the first time evidence is seen.
// Application evidence wins because it carries the richest per-fee metadata.
func (e *Engine) Reconcile(in Inputs) []PaymentRecord {
	state := newPassState()

	// Students with any application row are owned by pass 1; the later
	// passes only cover students the application stream knows nothing about.
	hasApplication := make(map[uint]struct{}, len(in.Applications))
	for _, app := range in.Applications {
		hasApplication[app.StudentID] = struct{}{}
	}

	e.applicationPass(in, state)
	e.transferPass(in, hasApplication, state)
	e.stripeOnlyPass(in, hasApplication, state)

	return state.records
}

func (e *Engine) applicationPass(in Inputs, state *passState) {
	rows := make([]ApplicationRow, len(in.Applications))
	copy(rows, in.Applications)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StudentID != rows[j].StudentID {
			return rows[i].StudentID < rows[j].StudentID
		}
		return rows[i].ApplicationID < rows[j].ApplicationID
	})

	for _, row := range rows {
		if e.excluded(row.StudentID) {
			continue
		}

		// Global-per-student fees: at most one record regardless of how
		// many applications the student has.
		if row.SelectionProcess.Paid && !state.hasPair(row.StudentID, FeeSelectionProcess) {
			state.emit(e.record(in, row.StudentID, FeeSelectionProcess, row.SelectionProcess,
				row.Dependents, nil, sourceApplication, 0, row.CreatedAt, MethodManual), 0)
		}
		if row.I20Control.Paid && !state.hasPair(row.StudentID, FeeI20Control) {
			state.emit(e.record(in, row.StudentID, FeeI20Control, row.I20Control,
				row.Dependents, nil, sourceApplication, 0, row.CreatedAt, MethodManual), 0)
		}

		// Per-application fees: the application fee and the scholarship fee
		// legitimately recur once per distinct application.
		if row.Application.Paid && !state.hasAppKey(row.StudentID, FeeApplication, row.ApplicationID) {
			state.emit(e.record(in, row.StudentID, FeeApplication, row.Application,
				row.Dependents, row.ScholarshipAppFee, sourceApplication, row.ApplicationID, row.CreatedAt, MethodManual),
				row.ApplicationID)
		}
		if row.Scholarship.Paid &&
			row.ScholarshipID != e.cfg.ExcludedScholarshipID &&
			!state.hasAppKey(row.StudentID, FeeScholarship, row.ApplicationID) {
			state.emit(e.record(in, row.StudentID, FeeScholarship, row.Scholarship,
				row.Dependents, nil, sourceApplication, row.ApplicationID, row.CreatedAt, MethodManual),
				row.ApplicationID)
		}
	}
}

func (e *Engine) transferPass(in Inputs, hasApplication map[uint]struct{}, state *passState) {
	rows := make([]TransferRow, len(in.Transfers))
	copy(rows, in.Transfers)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})

	for _, row := range rows {
		if e.excluded(row.StudentID) {
			continue
		}
		if _, ok := hasApplication[row.StudentID]; ok {
			continue
		}

		fee, ok := NormalizeFeeTag(row.FeeTag)
		if !ok {
			continue
		}
		if state.hasPair(row.StudentID, fee) {
			continue
		}

		flag := FeeFlag{Paid: true, Method: string(MethodZelle)}
		state.emit(e.record(in, row.StudentID, fee, flag, in.Dependents[row.StudentID],
			nil, sourceZelle, 0, row.CreatedAt, MethodZelle), 0)
	}
}

func (e *Engine) stripeOnlyPass(in Inputs, hasApplication map[uint]struct{}, state *passState) {
	rows := make([]StripeOnlyRow, len(in.StripeOnly))
	copy(rows, in.StripeOnly)
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })

	for _, row := range rows {
		if e.excluded(row.StudentID) {
			continue
		}
		if _, ok := hasApplication[row.StudentID]; ok {
			continue
		}

		flags := []struct {
			fee  FeeType
			flag FeeFlag
		}{
			{FeeSelectionProcess, row.SelectionProcess},
			{FeeApplication, row.Application},
			{FeeScholarship, row.Scholarship},
			{FeeI20Control, row.I20Control},
		}

		for _, f := range flags {
			if !f.flag.Paid || state.hasPair(row.StudentID, f.fee) {
				continue
			}
			state.emit(e.record(in, row.StudentID, f.fee, f.flag,
				row.Dependents, nil, sourceStripeOnly, 0, row.CreatedAt, MethodStripe), 0)
		}
	}
}

// record resolves the amount for one piece of evidence and builds the
// canonical record. defaultMethod is the pass-level fallback when the row
// carries no usable per-fee method field.
func (e *Engine) record(in Inputs, studentID uint, fee FeeType, flag FeeFlag,
	dependents int, scholarshipAppFee *decimal.Decimal,
	source recordSource, appID uint, rowCreatedAt time.Time, defaultMethod PaymentMethod) PaymentRecord {

	amount := e.resolver.Resolve(ResolveInput{
		FeeType:           fee,
		SystemType:        e.systemType(in, studentID),
		Dependents:        dependents,
		Override:          lookupAmount(in.Overrides, studentID, fee),
		RealPaid:          lookupAmount(in.RealPaid, studentID, fee),
		ScholarshipAppFee: scholarshipAppFee,
	})

	createdAt := rowCreatedAt
	if flag.PaidAt != nil && !flag.PaidAt.IsZero() {
		createdAt = *flag.PaidAt
	}

	return PaymentRecord{
		ID:            recordID(studentID, fee, source, appID),
		StudentID:     studentID,
		FeeType:       fee,
		AmountCents:   amount,
		Status:        StatusPaid,
		PaymentMethod: NormalizeMethod(flag.Method, defaultMethod),
		CreatedAt:     createdAt,
	}
}

func (e *Engine) excluded(studentID uint) bool {
	return e.cfg.ShouldExclude != nil && e.cfg.ShouldExclude(studentID)
}

// systemType defaults to legacy: untagged students predate the simplified
// rollout.
func (e *Engine) systemType(in Inputs, studentID uint) SystemType {
	if st, ok := in.SystemTypes[studentID]; ok && (st == SystemLegacy || st == SystemSimplified) {
		return st
	}
	return SystemLegacy
}

func lookupAmount(m map[uint]map[FeeType]decimal.Decimal, studentID uint, fee FeeType) *decimal.Decimal {
	byFee, ok := m[studentID]
	if !ok {
		return nil
	}
	d, ok := byFee[fee]
	if !ok {
		return nil
	}
	return &d
}
