package tasks

import (
	"context"
	"log"

	"enrollpay_app/internal/models"
)

// LogInfoTaskDef is a diagnostic task that just logs its message argument
type LogInfoTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *LogInfoTaskDef) TaskID() string {
	return "log_info"
}

// HandleExecution handles logging information
func (t *LogInfoTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	message, ok := task.Arguments["message"].(string)
	if !ok {
		message = "No message provided"
	}
	log.Printf("[Task: log_info] Message: %s", message)

	return map[string]interface{}{
		"status":  "success",
		"message": message,
	}, nil
}

// LogInfoTask is the singleton instance of LogInfoTaskDef
var LogInfoTask = &LogInfoTaskDef{}
