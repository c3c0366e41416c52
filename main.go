package main

import (
	"context"
	"database/sql"
	"gymdash-api/handlers"
	"gymdash-api/initializers"
	"gymdash-api/middleware"
	"gymdash-api/observability"
	"gymdash-api/pkg/notify"
	"gymdash-api/repository"
	"gymdash-api/websocket"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	store := repository.NewPostgresStore(db)
	usersRepo := repository.NewUsersRepository(store)
	exercisesRepo := repository.NewExercisesRepository(store)
	activitiesRepo := repository.NewActivitiesRepository(store)
	itemsRepo := repository.NewItemsRepository(store)

	if err := initializers.InitDefaults(context.Background(), usersRepo); err != nil {
		log.Fatal("Failed to initialize default data:", err)
	}

	if err := initializers.InitMinio(); err != nil {
		log.Fatal("Failed to initialize Minio:", err)
	}
	backupper := initializers.NewBackupper(store)
	backupCron, err := initializers.StartBackupSchedule(backupper)
	if err != nil {
		log.Fatal("Invalid backup schedule:", err)
	}
	if backupCron != nil {
		defer backupCron.Stop()
	}

	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request ID and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	// Panic recovery
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	// Apply rate limiting globally after CORS but before routes
	r.Use(middleware.RateLimitMiddleware())
	r.Use(observability.HTTPMetricsMiddleware())

	// Initialize WebSocket hub and notifier
	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	// Handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtSecret)
	usersHandler := handlers.NewUsersHandler(usersRepo, itemsRepo).WithNotifier(notifier)
	exercisesHandler := handlers.NewExercisesHandler(exercisesRepo, usersRepo)
	activitiesHandler := handlers.NewActivitiesHandler(activitiesRepo, exercisesRepo, usersRepo).WithNotifier(notifier)
	itemsHandler := handlers.NewItemsHandler(itemsRepo, usersRepo)
	backupHandler := handlers.NewBackupHandler(backupper, usersRepo)

	// Public endpoints
	r.GET("/health", handlers.Health)
	r.GET("/metrics", observability.MetricsHandler())

	// Public endpoints with stricter auth rate limit
	authPublic := r.Group("/", middleware.RateLimitAuthMiddleware())
	authPublic.POST("/login", authHandler.Login)

	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret))
	{
		auth.GET("/ws", websocket.ServeWS(hub))

		auth.GET("/users", usersHandler.GetUsers)
		auth.POST("/users", usersHandler.CreateUser)
		auth.GET("/users/me", usersHandler.GetMe)
		auth.PATCH("/users/me", usersHandler.UpdateMe)
		auth.PATCH("/users/me/password", usersHandler.UpdatePasswordMe)
		auth.DELETE("/users/me", usersHandler.DeleteMe)
		auth.GET("/users/:id", usersHandler.GetUserByID)
		auth.PATCH("/users/:id", usersHandler.UpdateUser)
		auth.DELETE("/users/:id", usersHandler.DeleteUser)
		auth.PATCH("/users/me/exercise-performance", usersHandler.UpdateExercisePerformance)

		auth.GET("/exercises", exercisesHandler.GetExercises)
		auth.POST("/exercises", exercisesHandler.CreateExercise)
		auth.GET("/exercises/:id", exercisesHandler.GetExercise)
		auth.PATCH("/exercises/:id", exercisesHandler.UpdateExercise)
		auth.DELETE("/exercises/:id", exercisesHandler.DeleteExercise)

		auth.GET("/activities", activitiesHandler.GetActivities)
		auth.POST("/activities", activitiesHandler.CreateActivity)
		auth.GET("/activities/exercises/:userId/:date", activitiesHandler.GetExercisesForDay)
		auth.GET("/activities/:id", activitiesHandler.GetActivity)
		auth.PATCH("/activities/:id", activitiesHandler.UpdateActivity)
		auth.DELETE("/activities/:id", activitiesHandler.DeleteActivity)
		auth.POST("/activities/:id/exercises/:exerciseId", activitiesHandler.AddExerciseToActivity)
		auth.DELETE("/activities/:id/exercises/:exerciseId", activitiesHandler.RemoveExerciseFromActivity)
		auth.POST("/activities/assign/:id", activitiesHandler.AssignActivity)
		auth.DELETE("/activities/unassign/:id", activitiesHandler.UnassignActivity)
		auth.PUT("/activities/assign/:id", activitiesHandler.MoveActivityAssignment)

		auth.GET("/items", itemsHandler.GetItems)
		auth.POST("/items", itemsHandler.CreateItem)
		auth.GET("/items/:id", itemsHandler.GetItem)
		auth.PATCH("/items/:id", itemsHandler.UpdateItem)
		auth.DELETE("/items/:id", itemsHandler.DeleteItem)

		auth.POST("/admin/backup", backupHandler.TriggerBackup)
	}

	r.Run(":8080")
}
