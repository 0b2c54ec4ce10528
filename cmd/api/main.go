package main

import (
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

	"niapath/guidance-api/internal/config"
	"niapath/guidance-api/internal/handlers"
	"niapath/guidance-api/internal/repositories"
	"niapath/guidance-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	selectionRepo := repositories.NewSelectionRepository(db)
	universityRepo := repositories.NewUniversityRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	identityService, err := services.NewIdentityService(cfg.Identity)
	if err != nil {
		log.Fatalf("❌ Failed to initialize identity service: %v", err)
	}
	if cfg.Identity.DevMode {
		log.Println("⚠️ Dev mode enabled: requests run as the development user")
	}

	functionClient := services.NewFunctionClient(cfg.Functions)
	reportService := services.NewReportService(functionClient)

	sessions := services.NewSessionManager(
		profileRepo,
		catalogRepo,
		selectionRepo,
		universityRepo,
		functionClient,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService, profileRepo, sessions)
	profileHandler := handlers.NewProfileHandler(
		identityService,
		sessions,
		storageService,
		cfg.Storage.MaxAvatarSize,
	)
	recommendationHandler := handlers.NewRecommendationHandler(identityService, sessions)
	reportHandler := handlers.NewReportHandler(identityService, sessions, reportService, profileRepo)
	chatHandler := handlers.NewChatHandler(identityService, sessions)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "NiaPath Career Guidance API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxAvatarSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
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

	// Auth endpoints
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.HandleSignup)
	auth.Post("/login", authHandler.HandleLogin)
	auth.Post("/logout", authHandler.HandleLogout)
	auth.Post("/password-strength", authHandler.HandlePasswordStrength)

	// Profile endpoints
	profile := api.Group("/profile")
	profile.Get("/", profileHandler.HandleLoad)
	profile.Put("/fields", profileHandler.HandleSetFields)
	profile.Post("/interests", profileHandler.HandleAddInterest)
	profile.Post("/interests/toggle", profileHandler.HandleToggleInterest)
	profile.Post("/subjects/grade", profileHandler.HandleSetGrade)
	profile.Post("/save", profileHandler.HandleSave)
	profile.Post("/avatar", profileHandler.HandleAvatarUpload)

	// Recommendation endpoints
	api.Post("/recommendation", recommendationHandler.HandleRequest)
	api.Get("/recommendation", recommendationHandler.HandleGetState)
	api.Post("/recommendation/report", reportHandler.HandleExport)

	// Chat endpoints
	api.Post("/chat", chatHandler.HandleSend)
	api.Get("/chat", chatHandler.HandleTranscript)
	api.Delete("/chat", chatHandler.HandleClose)

	// Uploaded avatars
	app.Static("/uploads", cfg.Storage.UploadPath)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "NiaPath Career Guidance API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/signup",
				"POST /api/v1/auth/login",
				"POST /api/v1/auth/logout",
				"POST /api/v1/auth/password-strength",
				"GET /api/v1/profile",
				"PUT /api/v1/profile/fields",
				"POST /api/v1/profile/interests",
				"POST /api/v1/profile/interests/toggle",
				"POST /api/v1/profile/subjects/grade",
				"POST /api/v1/profile/save",
				"POST /api/v1/profile/avatar",
				"POST /api/v1/recommendation",
				"GET /api/v1/recommendation",
				"POST /api/v1/recommendation/report",
				"POST /api/v1/chat",
				"GET /api/v1/chat",
				"DELETE /api/v1/chat",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
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
