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

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/handlers"
	"alfredoptarigan/interview-prep/internal/middleware"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

// multipartOverhead is the room left for form fields and boundaries on top of
// the largest accepted upload.
const multipartOverhead = 1 << 20

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	sessionRepo := repositories.NewSessionRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize AI provider
	generator, embedder, err := services.NewProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize AI provider: %v", err)
	}
	log.Printf("✅ AI provider %s initialized (model %s)\n", generator.Provider(), cfg.AI.Model)

	interviewService := services.NewInterviewService(
		generator,
		services.NewDocumentExtractor(),
		services.NewResponseNormalizer(),
		cfg.AI.Model,
	)

	// Question index is optional
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var index services.QuestionIndex
	if cfg.IndexEnabled() {
		index, err = services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := index.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  QDRANT_URL or GEMINI_API_KEY not set, question search disabled")
		embedder = nil
	}

	searchService := services.NewSearchService(sessionRepo, embedder, index)

	var indexWorker services.IndexWorker
	if searchService.Enabled() {
		indexWorker = services.NewIndexWorker(
			sessionRepo,
			searchService,
			cfg.Worker.Concurrency,
			cfg.Worker.PollInterval,
		)
		indexWorker.Start(ctx)
	}

	// Initialize Handlers
	aiHandler := handlers.NewAIHandler(interviewService, cfg.Upload.MaxFileSize)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, searchService, indexWorker)
	questionHandler := handlers.NewQuestionHandler(questionRepo, searchService, indexWorker)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Prep API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.AI.RequestTimeout + 15*time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize) + multipartOverhead,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigin,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"provider": generator.Provider(),
			"search":   searchService.Enabled(),
			"time":     time.Now(),
		})
	})

	auth := middleware.Auth(cfg.Auth.JWTSecret)
	if cfg.Auth.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET not set, all requests run as the anonymous user")
	}

	aiHandler.RegisterRoutes(api.Group("/ai", auth, middleware.RateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)))
	sessionHandler.RegisterRoutes(api.Group("/sessions", auth))
	questionHandler.RegisterRoutes(api.Group("/questions", auth))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Prep API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/ai/generate-questions",
				"POST /api/v1/ai/generate-explanation",
				"POST /api/v1/ai/generate-questions-from-resume",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"DELETE /api/v1/sessions/:id",
				"POST /api/v1/questions/add",
				"POST /api/v1/questions/:id/pin",
				"POST /api/v1/questions/:id/note",
				"GET /api/v1/questions/search?q=",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if indexWorker != nil {
			indexWorker.Stop()
		}
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
