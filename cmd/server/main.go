package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"enrollpay_app/internal/handlers"
	authMiddleware "enrollpay_app/internal/middleware"
	"enrollpay_app/internal/reconcile"
	"enrollpay_app/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}

	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
		log.Println("The metrics API will reject requests until valid credentials are provided")
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
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis (optional)
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, metrics caching disabled")
	}

	// Engine configuration plus the test-account exclusion predicate
	cfg := reconcile.ConfigFromEnv()
	cfg.ShouldExclude = excludedStudentsPredicate(os.Getenv("EXCLUDED_STUDENT_IDS"))

	reconciliationSvc := services.NewReconciliationService(db, cache, cfg)
	reader := services.NewSourceReader(db)

	// Create Echo instance
	e := echo.New()
	e.HTTPErrorHandler = authMiddleware.CustomErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Initialize handlers
	metricsHandler := handlers.NewMetricsHandler(reconciliationSvc, reader)

	// Public routes
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Protected API routes
	api := e.Group("/api")
	api.Use(authMiddleware.RequireAuth(authClient))
	api.GET("/metrics/overview", metricsHandler.Overview)
	api.GET("/metrics/export", metricsHandler.ExportCSV)
	api.GET("/metrics/itemized", metricsHandler.Itemized)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

// excludedStudentsPredicate parses a comma-separated id list into the
// engine's exclusion predicate. Hosted environments use it to keep
// synthetic test accounts out of revenue.
func excludedStudentsPredicate(raw string) func(uint) bool {
	excluded := make(map[uint]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			log.Printf("Warning: ignoring invalid excluded student id %q", part)
			continue
		}
		excluded[uint(id)] = struct{}{}
	}
	if len(excluded) == 0 {
		return nil
	}
	return func(studentID uint) bool {
		_, ok := excluded[studentID]
		return ok
	}
}
