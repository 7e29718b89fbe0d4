package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"enrollpay_app/internal/models"
	"enrollpay_app/internal/services"
	"enrollpay_app/internal/tasks"
)

// pollInterval is how often the worker checks for due tasks
const pollInterval = 5 * time.Minute

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Redis (optional)
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	}

	deps := &tasks.Deps{DB: db, Cache: cache}

	// Initialize Task Registry
	tasks.DefineTasks()

	// Make sure the recurring metrics snapshot exists
	if err := tasks.EnsureSnapshotTask(db); err != nil {
		log.Printf("Warning: failed to ensure snapshot task: %v", err)
	}

	log.Println("Worker started. Waiting for next tick...")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down worker...")
		cancel()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Run once immediately so a fresh deploy does useful work before the
	// first tick
	processScheduledTasks(ctx, deps)

	for {
		select {
		case <-ticker.C:
			processScheduledTasks(ctx, deps)
		case <-ctx.Done():
			return
		}
	}
}

func processScheduledTasks(ctx context.Context, deps *tasks.Deps) {
	log.Println("Checking for pending tasks...")

	var pendingTasks []models.ScheduledTask
	now := time.Now()
	err := deps.DB.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).Find(&pendingTasks).Error
	if err != nil {
		log.Printf("Error fetching pending tasks: %v", err)
		return
	}

	if len(pendingTasks) == 0 {
		log.Println("No pending tasks found.")
		return
	}

	log.Printf("Found %d pending tasks.", len(pendingTasks))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		executeTask(ctx, deps, task, 1)
	}
}

func executeTask(ctx context.Context, deps *tasks.Deps, task models.ScheduledTask, curAttempt int) {
	log.Printf("Processing task: %s (ID: %d, attempt %d)", task.TaskName, task.ID, curAttempt)

	handler, found := tasks.GetHandler(task.TaskName)
	if !found {
		log.Printf("Task handler not found for: %s. Marking as failure.", task.TaskName)

		now := time.Now()
		deps.DB.Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})

		history := models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          "handler_not_found",
			AttemptNumber:   curAttempt,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		}
		deps.DB.Create(&history)
		return
	}

	// Execute task
	startTime := time.Now()
	result, err := handler(ctx, deps, task)
	runtimeMs := int(time.Since(startTime).Milliseconds())

	status := "success"
	var resultData map[string]interface{}
	if err != nil {
		status = "failure"
		resultData = map[string]interface{}{"error": err.Error()}
		log.Printf("Task %s failed: %v", task.TaskName, err)
	} else {
		resultData = result
		log.Printf("Task %s completed successfully.", task.TaskName)
	}

	history := models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startTime,
		Runtime:         runtimeMs,
		Status:          status,
		AttemptNumber:   curAttempt,
		Arguments:       task.Arguments,
		Result:          resultData,
	}
	deps.DB.Create(&history)

	taskUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if status != "success" {
		if curAttempt < task.MaxAttempt {
			executeTask(ctx, deps, task, curAttempt+1)
			return
		}
		taskUpdates["status"] = models.ScheduledTaskStatusFailure
	} else {
		switch task.TaskType {
		case models.ScheduledTaskTypeOneTime:
			taskUpdates["status"] = models.ScheduledTaskStatusDone
		case models.ScheduledTaskTypeRecurring:
			nextDue := task.NextDue()
			// The next due must be in the future, otherwise the task would
			// run again on every tick
			if nextDue.After(task.Due) {
				taskUpdates["status"] = models.ScheduledTaskStatusActive
				taskUpdates["due"] = nextDue
			} else {
				taskUpdates["status"] = models.ScheduledTaskStatusDone
			}
		}
	}

	deps.DB.Model(&task).Updates(taskUpdates)
}
