package reconcile

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

var testDay = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func paidFlag() FeeFlag {
	return FeeFlag{Paid: true}
}

func sortRecords(records []PaymentRecord) []PaymentRecord {
	out := make([]PaymentRecord, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func countPairs(records []PaymentRecord) map[pairKey]int {
	counts := make(map[pairKey]int)
	for _, r := range records {
		counts[pairKey{r.StudentID, r.FeeType}]++
	}
	return counts
}

func TestReconcileNoDoubleCountingAcrossStreams(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Student 1 has evidence for the selection fee in all three streams
	in := Inputs{
		Applications: []ApplicationRow{
			{ApplicationID: 10, StudentID: 1, ScholarshipID: 5, SelectionProcess: paidFlag(), CreatedAt: testDay},
		},
		Transfers: []TransferRow{
			{ID: 100, StudentID: 1, FeeTag: "selection process", CreatedAt: testDay},
		},
		StripeOnly: []StripeOnlyRow{
			{StudentID: 1, SelectionProcess: paidFlag(), CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.StudentID != 1 || rec.FeeType != FeeSelectionProcess {
		t.Errorf("unexpected record %+v", rec)
	}
	// Application evidence carries no method field here, so the pass
	// default applies
	if rec.PaymentMethod != MethodManual {
		t.Errorf("expected application-pass record (manual), got %s", rec.PaymentMethod)
	}
}

func TestReconcileTransferBeatsStripeOnly(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	in := Inputs{
		Transfers: []TransferRow{
			{ID: 1, StudentID: 7, FeeTag: "application_fee", CreatedAt: testDay},
		},
		StripeOnly: []StripeOnlyRow{
			{StudentID: 7, Application: paidFlag(), CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].PaymentMethod != MethodZelle {
		t.Errorf("expected zelle (transfer pass wins), got %s", records[0].PaymentMethod)
	}
}

func TestReconcileGlobalFeesEmitOncePerStudent(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Two applications for the same student, both flagging the global fees
	// and the per-application fees
	in := Inputs{
		Applications: []ApplicationRow{
			{ApplicationID: 1, StudentID: 3, ScholarshipID: 20, SelectionProcess: paidFlag(), Application: paidFlag(), Scholarship: paidFlag(), I20Control: paidFlag(), CreatedAt: testDay},
			{ApplicationID: 2, StudentID: 3, ScholarshipID: 21, SelectionProcess: paidFlag(), Application: paidFlag(), Scholarship: paidFlag(), I20Control: paidFlag(), CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	counts := countPairs(records)
	if got := counts[pairKey{3, FeeSelectionProcess}]; got != 1 {
		t.Errorf("selection process emitted %d times; want 1", got)
	}
	if got := counts[pairKey{3, FeeI20Control}]; got != 1 {
		t.Errorf("i20 control emitted %d times; want 1", got)
	}
	// Application and scholarship fees recur per distinct application
	if got := counts[pairKey{3, FeeApplication}]; got != 2 {
		t.Errorf("application fee emitted %d times; want 2", got)
	}
	if got := counts[pairKey{3, FeeScholarship}]; got != 2 {
		t.Errorf("scholarship fee emitted %d times; want 2", got)
	}
}

func TestReconcileExcludedScholarship(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludedScholarshipID = 99
	engine := NewEngine(cfg)

	in := Inputs{
		Applications: []ApplicationRow{
			{ApplicationID: 1, StudentID: 4, ScholarshipID: 99, Scholarship: paidFlag(), Application: paidFlag(), CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	counts := countPairs(records)
	if got := counts[pairKey{4, FeeScholarship}]; got != 0 {
		t.Errorf("excluded scholarship emitted %d scholarship fees; want 0", got)
	}
	if got := counts[pairKey{4, FeeApplication}]; got != 1 {
		t.Errorf("application fee emitted %d times; want 1 (exclusion is scholarship-fee only)", got)
	}
}

func TestReconcileExclusionPredicate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShouldExclude = func(studentID uint) bool { return studentID == 8 }
	engine := NewEngine(cfg)

	in := Inputs{
		Applications: []ApplicationRow{
			{ApplicationID: 1, StudentID: 8, SelectionProcess: paidFlag(), CreatedAt: testDay},
		},
		Transfers: []TransferRow{
			{ID: 1, StudentID: 8, FeeTag: "application", CreatedAt: testDay},
			{ID: 2, StudentID: 9, FeeTag: "application", CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].StudentID != 9 {
		t.Errorf("expected only student 9, got student %d", records[0].StudentID)
	}
}

func TestReconcileTransferIgnoredWhenStudentHasApplication(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// The application row exists but doesn't flag the application fee as
	// paid. The transfer pass still skips the student entirely: pass 2 only
	// covers students with no application row at all.
	in := Inputs{
		Applications: []ApplicationRow{
			{ApplicationID: 1, StudentID: 2, SelectionProcess: paidFlag(), CreatedAt: testDay},
		},
		Transfers: []TransferRow{
			{ID: 1, StudentID: 2, FeeTag: "application", CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	counts := countPairs(records)
	if got := counts[pairKey{2, FeeApplication}]; got != 0 {
		t.Errorf("transfer emitted %d application fees for an application-stream student; want 0", got)
	}
}

func TestReconcilePaymentMethodFields(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	in := Inputs{
		Applications: []ApplicationRow{
			{
				ApplicationID:    1,
				StudentID:        11,
				SelectionProcess: FeeFlag{Paid: true, Method: "stripe"},
				Application:      paidFlag(), // no method field, defaults to manual
				CreatedAt:        testDay,
			},
		},
		StripeOnly: []StripeOnlyRow{
			{StudentID: 12, I20Control: FeeFlag{Paid: true, Method: "zelle"}, CreatedAt: testDay},
			{StudentID: 13, I20Control: paidFlag(), CreatedAt: testDay},
		},
	}

	records := engine.Reconcile(in)

	methods := make(map[pairKey]PaymentMethod)
	for _, r := range records {
		methods[pairKey{r.StudentID, r.FeeType}] = r.PaymentMethod
	}

	if got := methods[pairKey{11, FeeSelectionProcess}]; got != MethodStripe {
		t.Errorf("per-fee method field ignored: got %s, want stripe", got)
	}
	if got := methods[pairKey{11, FeeApplication}]; got != MethodManual {
		t.Errorf("application-pass default: got %s, want manual", got)
	}
	if got := methods[pairKey{12, FeeI20Control}]; got != MethodZelle {
		t.Errorf("stripe-only per-fee method: got %s, want zelle", got)
	}
	if got := methods[pairKey{13, FeeI20Control}]; got != MethodStripe {
		t.Errorf("stripe-only default: got %s, want stripe", got)
	}
}

func TestReconcileIdempotence(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	in := Inputs{
		Applications: []ApplicationRow{
			{ApplicationID: 1, StudentID: 1, ScholarshipID: 2, SelectionProcess: paidFlag(), Application: paidFlag(), CreatedAt: testDay},
			{ApplicationID: 2, StudentID: 2, ScholarshipID: 3, Scholarship: paidFlag(), CreatedAt: testDay.Add(time.Hour)},
		},
		Transfers: []TransferRow{
			{ID: 5, StudentID: 6, FeeTag: "i20", CreatedAt: testDay},
		},
		StripeOnly: []StripeOnlyRow{
			{StudentID: 9, Application: paidFlag(), CreatedAt: testDay},
		},
		SystemTypes: map[uint]SystemType{2: SystemSimplified},
		Dependents:  map[uint]int{6: 1},
	}

	first := engine.Reconcile(in)
	second := engine.Reconcile(in)

	if !reflect.DeepEqual(sortRecords(first), sortRecords(second)) {
		t.Errorf("two runs over the same inputs produced different record sets")
	}
}

func TestReconcileRecordIDsAreStable(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	in := Inputs{
		StripeOnly: []StripeOnlyRow{
			{StudentID: 42, Application: paidFlag(), CreatedAt: testDay},
		},
	}

	a := engine.Reconcile(in)
	b := engine.Reconcile(in)

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected 1 record per run, got %d and %d", len(a), len(b))
	}
	if a[0].ID != b[0].ID {
		t.Errorf("record id not stable across runs: %s vs %s", a[0].ID, b[0].ID)
	}
	if a[0].ID == "" {
		t.Error("record id is empty")
	}
}

func TestReconcileCreatedAtPrefersPaidAt(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	paidAt := testDay.AddDate(0, 0, -14)
	in := Inputs{
		Applications: []ApplicationRow{
			{
				ApplicationID:    1,
				StudentID:        5,
				SelectionProcess: FeeFlag{Paid: true, PaidAt: &paidAt},
				CreatedAt:        testDay,
			},
		},
	}

	records := engine.Reconcile(in)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if !records[0].CreatedAt.Equal(paidAt) {
		t.Errorf("record CreatedAt = %s; want the per-fee paid-at %s", records[0].CreatedAt, paidAt)
	}
}

func TestReconcileUnknownTransferTagSkipped(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	in := Inputs{
		Transfers: []TransferRow{
			{ID: 1, StudentID: 1, FeeTag: "tuition", CreatedAt: testDay},
		},
	}

	if records := engine.Reconcile(in); len(records) != 0 {
		t.Errorf("unknown fee tag produced %d records; want 0", len(records))
	}
}

func TestReconcileAmountsUseLookups(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	in := Inputs{
		Transfers: []TransferRow{
			{ID: 1, StudentID: 30, FeeTag: "selection process", CreatedAt: testDay},
		},
		SystemTypes: map[uint]SystemType{30: SystemLegacy},
		Dependents:  map[uint]int{30: 2},
	}

	records := engine.Reconcile(in)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].AmountCents != 70000 {
		t.Errorf("transfer amount = %d; want 70000 (schedule with dependents)", records[0].AmountCents)
	}
}
