package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/auth"
	"github.com/SaurabhKarki-25/Music-Platform/internal/cache"
	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/config"
	"github.com/SaurabhKarki-25/Music-Platform/internal/database"
	"github.com/SaurabhKarki-25/Music-Platform/internal/handlers"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/metrics"
	"github.com/SaurabhKarki-25/Music-Platform/internal/middleware"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"github.com/SaurabhKarki-25/Music-Platform/internal/presence"
	"github.com/SaurabhKarki-25/Music-Platform/internal/recommendations"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"github.com/SaurabhKarki-25/Music-Platform/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== Music Platform server starting ===")

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Initialize Prometheus metrics
	metrics.Initialize()

	// Initialize auth service
	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}
	authService := auth.NewService(jwtSecret)

	// Initialize Redis; the template cache and mood rooms degrade
	// gracefully without it
	redisClient, redisErr := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if redisErr != nil {
		logger.Log.Warn("Redis unavailable - template cache and mood rooms disabled", zap.Error(redisErr))
	} else {
		defer redisClient.Close()
	}

	// Build the mood recommendation engine over its collaborators
	classifier := mood.NewClassifier(mood.DefaultProfiles())
	planner := mood.NewPlanner(classifier.Profiles())
	templateRepo := repository.NewTemplateRepository(database.DB)
	if redisClient != nil {
		templateRepo = repository.NewCachedTemplateRepository(templateRepo, redisClient)
	}
	userRepo := repository.NewUserRepository(database.DB)
	songStore := catalog.NewGormStore(database.DB)
	recsService := recommendations.NewService(templateRepo, userRepo, songStore, classifier, planner)

	h := handlers.NewHandlers(authService, recsService, templateRepo, userRepo, songStore)

	// Initialize S3 uploader; the server still runs without it, uploads
	// just get rejected
	if cfg.AWSBucket != "" {
		s3Uploader, err := storage.NewS3Uploader(cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
		if err != nil {
			logger.Log.Warn("Failed to initialize S3 uploader", zap.Error(err))
		} else {
			if err := s3Uploader.CheckBucketAccess(context.Background()); err != nil {
				logger.Log.Warn("S3 bucket access failed, uploads will fail", zap.Error(err))
			}
			h.SetUploader(s3Uploader)
		}
	} else {
		logger.Log.Warn("AWS_BUCKET not set - song uploads disabled")
	}

	// Redis-backed mood room presence
	if redisClient != nil {
		presenceMgr := presence.NewManager(redisClient)
		h.SetPresence(presenceMgr, presence.NewHandler(presenceMgr))
	}

	// Setup Gin router
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.FatalWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}
