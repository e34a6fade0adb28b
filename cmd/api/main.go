package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/config"
	"jobfit/resume-ranker/internal/handlers"
	"jobfit/resume-ranker/internal/repositories"
	"jobfit/resume-ranker/internal/services"
)

// maxBodySize bounds a whole upload regardless of MAX_FILES.
const maxBodySize = 512 << 20

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := config.NewLogger(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	runRepo := repositories.NewRankingRunRepository(db)
	zapLogger.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zapLogger.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewTextExtractor(zapLogger)
	rankingService := services.NewRankingService(
		extractor,
		zapLogger,
		services.RankingOptions(cfg.Ranking.Stemming, cfg.Ranking.StopWords)...,
	)
	zapLogger.Info("✅ Services initialized successfully",
		zap.Bool("stemming", cfg.Ranking.Stemming),
		zap.Bool("stop_words", cfg.Ranking.StopWords))

	// Initialize notifier
	notifier := services.NewNoopNotifier()
	if cfg.AMQP.URL != "" {
		notifier, err = services.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			zapLogger.Fatal("❌ Failed to connect to AMQP broker", zap.Error(err))
		}
		zapLogger.Info("✅ AMQP notifier initialized", zap.String("exchange", cfg.AMQP.Exchange))
	}
	defer notifier.Close()

	// Initialize run processor
	processor := services.NewRunProcessor(
		runRepo,
		docRepo,
		storageService,
		rankingService,
		notifier,
		zapLogger,
	)

	// Initialize worker
	worker := services.NewWorker(
		runRepo,
		processor,
		zapLogger,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.PollInterval,
		cfg.Worker.StaleAfter,
	)

	// Start worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	zapLogger.Info("✅ Worker started successfully")

	// Initialize handlers
	rankHandler := handlers.NewRankHandler(rankingService, cfg.Storage.MaxFileSize, cfg.Storage.MaxFiles)
	uploadHandler := handlers.NewUploadHandler(
		runRepo,
		docRepo,
		storageService,
		worker,
		zapLogger,
		cfg.Storage.MaxFileSize,
		cfg.Storage.MaxFiles,
	)
	resultHandler := handlers.NewResultHandler(runRepo)
	zapLogger.Info("✅ Handlers initialized")

	bodyLimit := cfg.Storage.MaxFileSize * int64(cfg.Storage.MaxFiles)
	if bodyLimit <= 0 || bodyLimit > maxBodySize {
		bodyLimit = maxBodySize
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Ranker API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(bodyLimit),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/rank", rankHandler.HandleRank)
	api.Post("/rankings", uploadHandler.HandleCreateRun)
	api.Get("/rankings/:id", resultHandler.HandleGetResult)
	api.Get("/rankings/:id/export", resultHandler.HandleExport)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Ranker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/rank",
				"POST /api/v1/rankings",
				"GET /api/v1/rankings/:id",
				"GET /api/v1/rankings/:id/export",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
