package tasks

import (
	"context"
	"fmt"
	"time"

	"enrollpay_app/internal/models"
	"enrollpay_app/internal/services"
)

// SyncItemizedTaskDef pulls card-processor balance transactions into the
// itemized_payments table for the gross/fee/net report
type SyncItemizedTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SyncItemizedTaskDef) TaskID() string {
	return "sync_itemized_payments"
}

// HandleExecution syncs the trailing window of balance transactions
func (t *SyncItemizedTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	windowDays := 7
	if v, ok := task.Arguments["window_days"].(float64); ok && v > 0 {
		windowDays = int(v)
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -windowDays)

	synced, err := services.NewStripeService().SyncItemizedPayments(deps.DB, from, to)
	if err != nil {
		return nil, fmt.Errorf("itemized payment sync failed: %w", err)
	}

	return map[string]interface{}{
		"status": "success",
		"synced": synced,
	}, nil
}

// SyncItemizedTask is the singleton instance of SyncItemizedTaskDef
var SyncItemizedTask = &SyncItemizedTaskDef{}
