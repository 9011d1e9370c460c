// @title Fall Risk Scorecard API
// @version 1.0
// @description Questionnaire sessions, scoring and note classification for the home fall-risk scorecard.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"risk-scorecard/internal/adapter"
	"risk-scorecard/internal/cache"
	"risk-scorecard/internal/catalog"
	"risk-scorecard/internal/classifier"
	"risk-scorecard/internal/config"
	"risk-scorecard/internal/domain"
	"risk-scorecard/internal/handler"
	"risk-scorecard/internal/logger"
	"risk-scorecard/internal/middleware"
	"risk-scorecard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// Log request details
		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("request_id", middleware.RequestIDFrom(c)),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	cat, err := catalog.Load(cfg.Questionnaire.CatalogFile)
	if err != nil {
		appLogger.Fatal("Failed to load question catalog", zap.Error(err))
	}
	appLogger.Info("Question catalog loaded", zap.String("title", cat.Title), zap.Int("questions", len(cat.Questions)))

	// Redis only backs the verdict cache, so the API starts without it.
	var store domain.Cache
	if cfg.Redis.Address != "" {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(pingCtx, cfg.Redis)
		cancel()
		if err != nil {
			appLogger.Warn("Failed to connect to Redis, verdict cache disabled", zap.Error(err))
		} else {
			appLogger.Info("Successfully connected to Redis")
			redisAdapter := adapter.NewRedisCacheAdapter(redisClient)
			defer redisAdapter.Close()
			store = redisAdapter
		}
	}

	classifierHTTPClient := &http.Client{Timeout: cfg.Classifier.Timeout + 5*time.Second}
	noteClassifier, err := classifier.Build(cfg.Classifier, store, classifierHTTPClient)
	if err != nil {
		appLogger.Fatal("Failed to create note classifier", zap.Error(err))
	}
	appLogger.Info("Note classifier initialized",
		zap.String("mode", cfg.Classifier.Mode),
		zap.String("provider", cfg.Classifier.Provider),
		zap.Duration("timeout", cfg.Classifier.Timeout),
	)

	// Initialize services
	assessmentService := service.NewAssessmentService(cat, noteClassifier, cfg.Server.SessionTTL)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.Server.SessionTTL > 0 {
		assessmentService.StartSweeper(sweepCtx, max(cfg.Server.SessionTTL/4, time.Minute))
	}

	// Initialize handlers
	assessmentHandler := handler.NewAssessmentHandler(assessmentService)
	healthHandler := handler.NewHealthHandler(store)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID", MaxAge: 300}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")
	apiGroup.Get("/health", healthHandler.Health)
	assessmentHandler.RegisterRoutes(apiGroup)
	app.Use(handler.NotFound)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopSweeper()
	assessmentService.Close()
	appLogger.Info("Server exited gracefully")
}
