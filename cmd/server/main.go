package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evolvefit/coach-app/internal/advisor"
	"evolvefit/coach-app/internal/api"
	"evolvefit/coach-app/internal/config"
	"evolvefit/coach-app/internal/metrics"
	"evolvefit/coach-app/internal/repository/mongo"
	"evolvefit/coach-app/internal/service"
	"evolvefit/coach-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// @title Coach App API
// @version 1.0
// @description API for managing students, workout plans, progress records and AI advisory.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Info("Starting Coach App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	log.Info("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.")

	// --- Ensure Indexes ---
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureStudentIndexes(ctx, appDB.Collection("students"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsurePlanExerciseIndexes(ctx, appDB.Collection("plan_exercises"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("progress_records"))
		mongo.EnsureExecutionIndexes(ctx, appDB.Collection("execution_logs"))
		log.Info("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	studentRepo := mongo.NewMongoStudentRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	planExerciseRepo := mongo.NewMongoPlanExerciseRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	executionRepo := mongo.NewMongoExecutionRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	studentService := service.NewStudentService(studentRepo)
	planService := service.NewPlanService(planRepo, planExerciseRepo, exerciseRepo, studentRepo)
	exerciseService := service.NewExerciseService(exerciseRepo)
	progressService := service.NewProgressService(progressRepo, studentRepo, fileStorage)
	portalService := service.NewPortalService(studentRepo, planRepo, planExerciseRepo, exerciseRepo, progressRepo, executionRepo)

	chatClient := advisor.NewOpenAIClient(cfg.OpenAI)
	advisorService := service.NewAdvisorService(chatClient)

	metricsManager := metrics.NewManager("coachapp", "server", prometheus.DefaultRegisterer)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		metricsManager,
		authService,
		studentService,
		planService,
		exerciseService,
		progressService,
		portalService,
		advisorService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // advisory calls wait on the model provider
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
