package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"alfredoptarigan/career-pathfinder/internal/config"
	"alfredoptarigan/career-pathfinder/internal/handlers"
	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, using environment and defaults")
	}
	log.Info("config loaded", "env", cfg.Server.Env, "model", cfg.Gemini.Model)

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini, log)
	if err != nil {
		log.Fatal("failed to initialize Gemini AI", "error", err)
	}
	if !geminiService.Available() {
		log.Warn("GEMINI_API_KEY is not set; model calls will fail until it is")
	}

	// Initialize pipelines
	nodeGenerator := services.NewNodeGenerator(geminiService, log)
	profileExtractor := services.NewProfileExtractor(geminiService, cfg.Resume.MaxTextLen, log)
	resourceDiscovery := services.NewResourceDiscovery(geminiService, log)
	textExtractor := services.NewTextExtractor()
	uploadReader := services.NewUploadReader(cfg.Resume.MaxFileSize)
	log.Info("services initialized")

	// Rate limit counters: Redis when configured, memory otherwise
	var counters services.CounterStore = services.NewMemoryCounterStore()
	if cfg.Redis.Addr != "" {
		redisCounters, err := services.NewRedisCounterStore(cfg.Redis, log)
		if err != nil {
			log.Warn("redis unavailable, using in-memory rate limit counters", "addr", cfg.Redis.Addr, "error", err)
		} else {
			counters = redisCounters
			log.Info("rate limit counters in redis", "addr", cfg.Redis.Addr)
		}
	}
	profileLimiter := services.NewRateLimiter(counters, cfg.RateLimit.PerWindow, cfg.RateLimit.Window)

	// Initialize Handlers
	generateHandler := handlers.NewGenerateHandler(nodeGenerator, log)
	resourcesHandler := handlers.NewResourcesHandler(resourceDiscovery, log)
	profileHandler := handlers.NewProfileHandler(
		uploadReader,
		textExtractor,
		profileExtractor,
		cfg.Resume.MinTextLen,
		log,
	)
	healthHandler := handlers.NewHealthHandler(geminiService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Career Pathfinder API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.Gemini.Timeout + 15*time.Second,
		BodyLimit:    int(cfg.Resume.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api")

	api.Get("/health", healthHandler.HandleHealth)
	api.Post("/generate", generateHandler.HandleGenerate)
	api.Post("/resources", resourcesHandler.HandleDiscover)
	api.Get("/resources", resourcesHandler.HandleDiscover)
	api.Post("/profile/extract",
		handlers.RateLimit(profileLimiter, "profile", log),
		profileHandler.HandleExtract,
	)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Career Pathfinder API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/health",
				"POST /api/generate",
				"POST /api/resources",
				"GET /api/resources?q=",
				"POST /api/profile/extract",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server forced to shutdown", "error", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", "addr", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", "error", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
