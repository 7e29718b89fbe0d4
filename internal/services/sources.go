package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"enrollpay_app/internal/metrics"
	"enrollpay_app/internal/models"
	"enrollpay_app/internal/reconcile"
)

// lookupBatchSize bounds the id count per IN query so large rosters do not
// produce oversized statements
const lookupBatchSize = 50

// SourceReader exposes the data-store reads the reconciliation engine
// consumes. Batched lookups isolate per-chunk failures: a failed chunk is
// logged and skipped, yielding partial results instead of aborting the run.
type SourceReader struct {
	db *gorm.DB
}

// NewSourceReader creates a reader over the given database
func NewSourceReader(db *gorm.DB) *SourceReader {
	return &SourceReader{db: db}
}

// ListApplications returns all applications with student, scholarship, and
// university data preloaded
func (r *SourceReader) ListApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Scholarship").
		Preload("University").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListZellePayments returns approved manual-transfer ledger rows
func (r *SourceReader) ListZellePayments(ctx context.Context) ([]models.ZellePayment, error) {
	var rows []models.ZellePayment
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ZellePaymentStatusApproved).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list zelle payments: %w", err)
	}
	return rows, nil
}

// ListStripeOnlyStudents returns students carrying a paid-fee flag but no
// application row; their only payment trace is the card processor
func (r *SourceReader) ListStripeOnlyStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("has_paid_selection_process_fee OR is_application_fee_paid OR is_scholarship_fee_paid OR has_paid_i20_control_fee").
		Where("NOT EXISTS (SELECT 1 FROM applications a WHERE a.student_id = students.id AND a.deleted_at IS NULL)").
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stripe-only students: %w", err)
	}
	return students, nil
}

// FeeOverrides returns admin overrides keyed by student and fee type.
// Amounts are parsed from the free-text column; malformed rows are skipped.
func (r *SourceReader) FeeOverrides(ctx context.Context, studentIDs []uint) map[uint]map[reconcile.FeeType]decimal.Decimal {
	out := make(map[uint]map[reconcile.FeeType]decimal.Decimal)

	for _, chunk := range chunkIDs(studentIDs, lookupBatchSize) {
		var rows []models.FeeOverride
		if err := r.db.WithContext(ctx).Where("student_id IN ?", chunk).Find(&rows).Error; err != nil {
			log.Printf("Warning: fee override lookup failed for %d students: %v", len(chunk), err)
			continue
		}
		for _, row := range rows {
			fee, ok := reconcile.NormalizeFeeTag(row.FeeType)
			if !ok {
				continue
			}
			amount := reconcile.ParseAmount(row.Amount)
			if amount.Sign() <= 0 {
				continue
			}
			if out[row.StudentID] == nil {
				out[row.StudentID] = make(map[reconcile.FeeType]decimal.Decimal)
			}
			out[row.StudentID][fee] = amount
		}
	}

	return out
}

// RealPaidAmounts returns processor-observed gross amounts keyed by student
// and fee type
func (r *SourceReader) RealPaidAmounts(ctx context.Context, studentIDs []uint) map[uint]map[reconcile.FeeType]decimal.Decimal {
	out := make(map[uint]map[reconcile.FeeType]decimal.Decimal)

	for _, chunk := range chunkIDs(studentIDs, lookupBatchSize) {
		var rows []models.StripeSettlement
		if err := r.db.WithContext(ctx).Where("student_id IN ?", chunk).Find(&rows).Error; err != nil {
			log.Printf("Warning: settlement lookup failed for %d students: %v", len(chunk), err)
			continue
		}
		for _, row := range rows {
			fee, ok := reconcile.NormalizeFeeTag(row.FeeType)
			if !ok || row.GrossAmount <= 0 {
				continue
			}
			if out[row.StudentID] == nil {
				out[row.StudentID] = make(map[reconcile.FeeType]decimal.Decimal)
			}
			out[row.StudentID][fee] = decimal.NewFromFloat(row.GrossAmount)
		}
	}

	return out
}

// studentProfiles returns system type and dependent count per student for
// streams whose rows do not embed the student record
func (r *SourceReader) studentProfiles(ctx context.Context, studentIDs []uint) (map[uint]reconcile.SystemType, map[uint]int) {
	systemTypes := make(map[uint]reconcile.SystemType)
	dependents := make(map[uint]int)

	type profile struct {
		ID         uint
		SystemType string
		Dependents int
	}

	for _, chunk := range chunkIDs(studentIDs, lookupBatchSize) {
		var rows []profile
		err := r.db.WithContext(ctx).Model(&models.Student{}).
			Select("id", "system_type", "dependents").
			Where("id IN ?", chunk).
			Find(&rows).Error
		if err != nil {
			log.Printf("Warning: student profile lookup failed for %d students: %v", len(chunk), err)
			continue
		}
		for _, row := range rows {
			systemTypes[row.ID] = reconcile.SystemType(row.SystemType)
			dependents[row.ID] = row.Dependents
		}
	}

	return systemTypes, dependents
}

// CountStudents returns the full roster size, independent of payment
// activity
func (r *SourceReader) CountStudents(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return int(n), nil
}

// ListItemizedPayments returns synced balance-transaction rows for the range
func (r *SourceReader) ListItemizedPayments(ctx context.Context, from, to time.Time) ([]models.ItemizedPayment, error) {
	var rows []models.ItemizedPayment
	err := r.db.WithContext(ctx).
		Where("paid_at >= ? AND paid_at < ?", from, to.AddDate(0, 0, 1)).
		Order("paid_at").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list itemized payments: %w", err)
	}
	return rows, nil
}

// ListUniversityPayoutRequests returns university disbursement requests
// created in the range
func (r *SourceReader) ListUniversityPayoutRequests(ctx context.Context, from, to time.Time) ([]metrics.PayoutRow, error) {
	var rows []models.UniversityPayoutRequest
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to.AddDate(0, 0, 1)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list university payout requests: %w", err)
	}

	out := make([]metrics.PayoutRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, metrics.PayoutRow{
			ID:        row.ID,
			Amount:    row.Amount,
			Status:    string(row.Status),
			CreatedAt: row.CreatedAt,
			PaidAt:    row.PaidAt,
		})
	}
	return out, nil
}

// ListAffiliatePayoutRequests returns all affiliate disbursement requests.
// Date filtering happens in the payout calculator because it depends on the
// paid-at preference rule, not a single column.
func (r *SourceReader) ListAffiliatePayoutRequests(ctx context.Context) ([]metrics.PayoutRow, error) {
	var rows []models.AffiliatePayoutRequest
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list affiliate payout requests: %w", err)
	}

	out := make([]metrics.PayoutRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, metrics.PayoutRow{
			ID:        row.ID,
			Amount:    row.Amount,
			Status:    string(row.Status),
			CreatedAt: row.CreatedAt,
			PaidAt:    row.PaidAt,
		})
	}
	return out, nil
}

// BuildInputs assembles the full evidence set for one reconciliation pass
func (r *SourceReader) BuildInputs(ctx context.Context) (reconcile.Inputs, error) {
	var in reconcile.Inputs

	apps, err := r.ListApplications(ctx)
	if err != nil {
		return in, err
	}
	transfers, err := r.ListZellePayments(ctx)
	if err != nil {
		return in, err
	}
	stripeOnly, err := r.ListStripeOnlyStudents(ctx)
	if err != nil {
		return in, err
	}

	// Collect every student id seen in any stream for the batched lookups
	idSet := make(map[uint]struct{})
	for _, app := range apps {
		idSet[app.StudentID] = struct{}{}
	}
	for _, t := range transfers {
		idSet[t.StudentID] = struct{}{}
	}
	for _, s := range stripeOnly {
		idSet[s.ID] = struct{}{}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	in.Overrides = r.FeeOverrides(ctx, ids)
	in.RealPaid = r.RealPaidAmounts(ctx, ids)
	in.SystemTypes, in.Dependents = r.studentProfiles(ctx, ids)

	in.Applications = make([]reconcile.ApplicationRow, 0, len(apps))
	for _, app := range apps {
		in.Applications = append(in.Applications, applicationRow(app))
	}

	in.Transfers = make([]reconcile.TransferRow, 0, len(transfers))
	for _, t := range transfers {
		in.Transfers = append(in.Transfers, reconcile.TransferRow{
			ID:        t.ID,
			StudentID: t.StudentID,
			FeeTag:    t.FeeTypeTag,
			CreatedAt: t.CreatedAt,
		})
	}

	in.StripeOnly = make([]reconcile.StripeOnlyRow, 0, len(stripeOnly))
	for _, s := range stripeOnly {
		in.StripeOnly = append(in.StripeOnly, stripeOnlyRow(s))
	}

	return in, nil
}

// applicationRow maps a store application row to the engine's typed input
func applicationRow(app models.Application) reconcile.ApplicationRow {
	row := reconcile.ApplicationRow{
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		ScholarshipID: app.ScholarshipID,
		Dependents:    app.Student.Dependents,
		CreatedAt:     app.CreatedAt,
	}

	if app.Scholarship.ApplicationFeeAmount != nil {
		fee := decimal.NewFromFloat(*app.Scholarship.ApplicationFeeAmount)
		row.ScholarshipAppFee = &fee
	}

	row.SelectionProcess, row.Application, row.Scholarship, row.I20Control = studentFeeFlags(app.Student)
	return row
}

// stripeOnlyRow maps a paid-flagged student with no application to the
// engine's typed input
func stripeOnlyRow(s models.Student) reconcile.StripeOnlyRow {
	row := reconcile.StripeOnlyRow{
		StudentID:  s.ID,
		Dependents: s.Dependents,
		CreatedAt:  s.CreatedAt,
	}
	row.SelectionProcess, row.Application, row.Scholarship, row.I20Control = studentFeeFlags(s)
	return row
}

func studentFeeFlags(s models.Student) (selection, application, scholarship, i20 reconcile.FeeFlag) {
	selection = reconcile.FeeFlag{
		Paid:   s.HasPaidSelectionProcessFee,
		Method: s.SelectionProcessFeeMethod,
		PaidAt: s.SelectionProcessFeePaidAt,
	}
	application = reconcile.FeeFlag{
		Paid:   s.IsApplicationFeePaid,
		Method: s.ApplicationFeeMethod,
		PaidAt: s.ApplicationFeePaidAt,
	}
	scholarship = reconcile.FeeFlag{
		Paid:   s.IsScholarshipFeePaid,
		Method: s.ScholarshipFeeMethod,
		PaidAt: s.ScholarshipFeePaidAt,
	}
	i20 = reconcile.FeeFlag{
		Paid:   s.HasPaidI20ControlFee,
		Method: s.I20ControlFeeMethod,
		PaidAt: s.I20ControlFeePaidAt,
	}
	return selection, application, scholarship, i20
}

// chunkIDs splits ids into batches of at most size
func chunkIDs(ids []uint, size int) [][]uint {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	var chunks [][]uint
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
