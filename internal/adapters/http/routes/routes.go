package routes

import (
	"context"
	"log"
	"time"

	"pdao-carelink/internal/adapters/http/handlers"
	"pdao-carelink/internal/adapters/http/middleware"
	"pdao-carelink/internal/adapters/persistence/repositories"
	"pdao-carelink/internal/config"
	"pdao-carelink/internal/core/services"
	"pdao-carelink/internal/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, syncer *cache.Syncer) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	benefitRepo := repositories.NewBenefitRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	barangayRepo := repositories.NewBarangayRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	memberService := services.NewMemberService(memberRepo)
	benefitService := services.NewBenefitService(benefitRepo, memberRepo)
	eventService := services.NewEventService(eventRepo)
	dashboardService := services.NewDashboardService(db, benefitRepo)

	// Background poll jobs keep read-heavy views warm. Stale values are
	// served in preference to errors when the database is unreachable.
	registerSyncJobs(syncer, cfg, dashboardService, barangayRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	benefitHandler := handlers.NewBenefitHandler(benefitService)
	eventHandler := handlers.NewEventHandler(eventService, memberService)
	scanHandler := handlers.NewScanHandler(memberService)
	dashboardHandler := handlers.NewDashboardHandler(syncer)
	barangayHandler := handlers.NewBarangayHandler(barangayRepo, syncer)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate-limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Member routes (Authenticated staff)
	memberRoutes := apiV1.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMemberRoutes(memberRoutes, memberHandler)

	// Scan resolution (Authenticated staff, never cached)
	scanRoutes := apiV1.Group("/scan")
	scanRoutes.Use(middleware.AuthMiddleware(cfg))
	scanRoutes.Use(middleware.NoCacheHeaders())
	scanRoutes.Get("/member", scanHandler.ResolveMember)

	// Benefit routes (Authenticated staff)
	benefitRoutes := apiV1.Group("/benefits")
	benefitRoutes.Use(middleware.AuthMiddleware(cfg))
	setupBenefitRoutes(benefitRoutes, benefitHandler)

	// Cross-benefit claim history
	apiV1.Get("/benefit-records", middleware.AuthMiddleware(cfg), benefitHandler.BenefitRecords)

	// Event routes (Authenticated staff)
	eventRoutes := apiV1.Group("/events")
	eventRoutes.Use(middleware.AuthMiddleware(cfg))
	setupEventRoutes(eventRoutes, eventHandler, cfg)

	// Dashboard routes (Authenticated staff)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/summary", dashboardHandler.Summary)

	// Barangay master routes
	barangayRoutes := apiV1.Group("/barangays")
	barangayRoutes.Use(middleware.AuthMiddleware(cfg))
	barangayRoutes.Get("/", middleware.MasterDataCache(), barangayHandler.List)
	barangayRoutes.Post("/", middleware.AdminOnly(), barangayHandler.Create)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate-limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/register", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.Register)

	// Identity changes rarely; the max-age tells devices how long the
	// cached identity stays good between re-fetches
	identityTTL := time.Duration(cfg.Refresh.IdentityTTLMins) * time.Minute
	router.Get("/me", middleware.AuthMiddleware(cfg), middleware.PrivateCacheHeaders(identityTTL), handler.Me)
}

// setupMemberRoutes configures member routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	router.Post("/", handler.Register)
	router.Get("/", handler.List)
	router.Get("/ranked", handler.Ranked)
	router.Get("/:id", handler.GetByID)
	router.Patch("/:id/status", middleware.AdminOnly(), handler.UpdateStatus)
}

// setupBenefitRoutes configures benefit routes
func setupBenefitRoutes(router fiber.Router, handler *handlers.BenefitHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/participants", handler.Participants)
	router.Post("/:id/participants", handler.AddParticipants)
	router.Delete("/:id/participants", handler.RemoveParticipants)
	router.Get("/:id/candidates", handler.Candidates)
	router.Post("/:id/claims", middleware.NoCacheHeaders(), handler.SubmitClaim)
	router.Get("/:id/claims", handler.ListClaims)
}

// setupEventRoutes configures event routes
func setupEventRoutes(router fiber.Router, handler *handlers.EventHandler, cfg *config.Config) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Detail)
	router.Post("/:id/attendances", middleware.NoCacheHeaders(), handler.SubmitAttendance)

	// Live attendance views re-poll at this cadence during an event
	attendanceMaxAge := time.Duration(cfg.Refresh.AttendancePollSecs) * time.Second
	router.Get("/:id/attendances", middleware.PrivateCacheHeaders(attendanceMaxAge), handler.ListAttendances)
}

// registerSyncJobs wires background cache refresh jobs
func registerSyncJobs(syncer *cache.Syncer, cfg *config.Config, dashboardService *services.DashboardService, barangayRepo repositories.BarangayRepository) {
	listTTL := time.Duration(cfg.Refresh.ListTTLMins) * time.Minute

	jobs := []cache.Job{
		{
			Key:   handlers.DashboardCacheKey,
			TTL:   listTTL,
			Every: time.Duration(cfg.Refresh.DashboardPollSecs) * time.Second,
			Fetch: func(ctx context.Context) (interface{}, error) {
				return dashboardService.BuildSummary(ctx)
			},
		},
		{
			Key:   handlers.BarangayCacheKey,
			TTL:   listTTL,
			Every: time.Duration(cfg.Refresh.ListPollMins) * time.Minute,
			Fetch: func(ctx context.Context) (interface{}, error) {
				return barangayRepo.List(ctx)
			},
		},
	}

	for _, job := range jobs {
		if err := syncer.Register(job); err != nil {
			log.Printf("⚠️ Sync job %s not registered: %v", job.Key, err)
		}
	}
}
