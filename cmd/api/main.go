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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resumescreener/internal/config"
	"resumescreener/internal/handlers"
	"resumescreener/internal/logger"
	"resumescreener/internal/repositories"
	"resumescreener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	zlog.Info("database connected")

	resumeRepo := repositories.NewResumeRepository(db)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewPDFExtractor()

	ctx := context.Background()
	geminiService, err := services.NewGeminiService(
		ctx,
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.MaxAttempts,
		cfg.Gemini.RetryBackoff,
		zlog,
	)
	if err != nil {
		zlog.Fatal("failed to initialize Gemini AI", zap.Error(err))
	}
	zlog.Info("gemini client ready", zap.String("model", cfg.Gemini.Model))

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		zlog.Fatal("failed to initialize Qdrant", zap.Error(err))
	}

	if err := qdrantService.InitCollection(); err != nil {
		zlog.Fatal("failed to initialize Qdrant collection", zap.Error(err))
	}
	zlog.Info("qdrant collection ready", zap.String("collection", cfg.Qdrant.Collection))

	similarityService := services.NewSimilarityService(geminiService, qdrantService, zlog)

	pacer := services.NewIntervalPacer(cfg.Screening.PacingInterval)

	screenerService := services.NewScreenerService(
		resumeRepo,
		geminiService,
		extractor,
		similarityService,
		pacer,
		cfg.Screening.MaxBatchSize,
		zlog,
	)

	// Initialize handlers
	screenHandler := handlers.NewScreenHandler(
		screenerService,
		storageService,
		cfg.Storage.MaxFileSize,
		zlog,
	)
	resumeHandler := handlers.NewResumeHandler(resumeRepo)
	searchHandler := handlers.NewSearchHandler(similarityService, zlog)

	// Create Fiber app. A full batch waits out one pacing delay per
	// resume plus retry backoffs, so the write timeout has to cover the
	// worst case, not a single quick request.
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * cfg.Screening.MaxBatchSize,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
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
	api.Post("/screen", screenHandler.HandleScreen)
	api.Get("/resumes", resumeHandler.HandleListResumes)
	api.Get("/resumes/:id", resumeHandler.HandleGetResume)
	api.Get("/search", searchHandler.HandleSearch)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/screen",
				"GET /api/v1/resumes",
				"GET /api/v1/resumes/:id",
				"GET /api/v1/search",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
