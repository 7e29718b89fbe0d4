package tasks

import (
	"fmt"

	"gorm.io/gorm"

	"enrollpay_app/internal/models"
)

// DefineTasks registers all available tasks
func DefineTasks() {
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)
	RegisterHandler(SnapshotMetricsTask.TaskID(), SnapshotMetricsTask.HandleExecution)
	RegisterHandler(EmailReportTask.TaskID(), EmailReportTask.HandleExecution)
	RegisterHandler(SyncItemizedTask.TaskID(), SyncItemizedTask.HandleExecution)
}

// snapshotRecurrence refreshes the cached overview four times a day
const snapshotRecurrence = "FREQ=HOURLY;INTERVAL=6"

// EnsureSnapshotTask creates the recurring metrics snapshot task if no
// active one exists yet. Called by the worker on startup so a fresh deploy
// starts snapshotting without manual scheduling.
func EnsureSnapshotTask(db *gorm.DB) error {
	var count int64
	err := db.Model(&models.ScheduledTask{}).
		Where("task_name = ? AND status = ?", SnapshotMetricsTask.TaskID(), models.ScheduledTaskStatusActive).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check for snapshot task: %w", err)
	}
	if count > 0 {
		return nil
	}

	task, err := SnapshotMetricsTask.CreateTask(snapshotRecurrence)
	if err != nil {
		return err
	}
	if err := db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create snapshot task: %w", err)
	}
	return nil
}
