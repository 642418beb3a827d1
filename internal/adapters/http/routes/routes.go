package routes

import (
	"parkgate/internal/adapters/http/handlers"
	"parkgate/internal/adapters/http/middleware"
	"parkgate/internal/adapters/persistence/repositories"
	"parkgate/internal/config"
	"parkgate/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	vehicleRepo := repositories.NewVehicleRepository(db)
	rateRepo := repositories.NewRateRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	topUpRepo := repositories.NewTopUpRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, rateRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, sessionRepo)
	rateService := services.NewRateService(rateRepo, cfg)
	sessionService := services.NewSessionService(sessionRepo, vehicleRepo, userRepo, auditRepo, rateService)
	auditService := services.NewAuditService(auditRepo)
	topUpService := services.NewTopUpService(topUpRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo)
	dashboardService := services.NewDashboardService(sessionRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	rateHandler := handlers.NewRateHandler(rateService)
	sessionHandler := handlers.NewSessionHandler(sessionService, invoiceService, userService)
	auditHandler := handlers.NewAuditHandler(auditService)
	topUpHandler := handlers.NewTopUpHandler(topUpService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// ============================================================
	// Auth routes (public, stricter rate limit)
	// ============================================================
	auth := apiV1.Group("/auth")
	auth.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// ============================================================
	// User routes (authenticated)
	// ============================================================
	users := apiV1.Group("/users", middleware.AuthMiddleware(cfg))
	users.Get("/me", userHandler.GetProfile)
	users.Put("/me", userHandler.UpdateProfile)
	users.Put("/me/password", userHandler.ChangePassword)

	// ============================================================
	// Vehicle routes (authenticated)
	// ============================================================
	vehicles := apiV1.Group("/vehicles", middleware.AuthMiddleware(cfg))
	vehicles.Post("/", vehicleHandler.RegisterVehicle)
	vehicles.Get("/me", vehicleHandler.MyVehicles)
	vehicles.Get("/", middleware.OfficerOrAdmin(), vehicleHandler.ListVehicles)
	vehicles.Get("/:id", vehicleHandler.GetVehicle)
	vehicles.Put("/:id", vehicleHandler.UpdateVehicle)
	vehicles.Post("/:id/deactivate", vehicleHandler.DeactivateVehicle)
	vehicles.Delete("/:id", vehicleHandler.DeleteVehicle)

	// ============================================================
	// Rate routes (read authenticated, mutations admin only)
	// ============================================================
	rates := apiV1.Group("/rates", middleware.AuthMiddleware(cfg))
	rates.Get("/", rateHandler.ListRates)
	rates.Get("/:category", rateHandler.GetRate)

	adminRates := apiV1.Group("/admin/rates", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	adminRates.Post("/", middleware.StrictRateLimiter(), rateHandler.CreateRate)
	adminRates.Put("/:category", middleware.StrictRateLimiter(), rateHandler.UpdateRate)
	adminRates.Delete("/:category", middleware.StrictRateLimiter(), rateHandler.DeleteRate)

	// ============================================================
	// Session routes (gate operations are officer/admin)
	// ============================================================
	sessions := apiV1.Group("/sessions", middleware.AuthMiddleware(cfg))
	sessions.Post("/start", middleware.OfficerOrAdmin(), sessionHandler.StartSession)
	sessions.Post("/settle", middleware.OfficerOrAdmin(), sessionHandler.SettleSession)
	sessions.Get("/active", middleware.OfficerOrAdmin(), sessionHandler.ListActiveSessions)
	sessions.Get("/active/:plate", middleware.OfficerOrAdmin(), sessionHandler.GetActiveSession)
	sessions.Get("/me", sessionHandler.MySessions)

	// ============================================================
	// Top-up routes
	// ============================================================
	topups := apiV1.Group("/topups", middleware.AuthMiddleware(cfg))
	topups.Post("/", topUpHandler.SubmitTopUp)
	topups.Get("/me", topUpHandler.MyTopUps)
	topups.Get("/pending", middleware.OfficerOrAdmin(), topUpHandler.ListPendingTopUps)
	topups.Post("/:id/approve", middleware.OfficerOrAdmin(), topUpHandler.ApproveTopUp)
	topups.Post("/:id/reject", middleware.OfficerOrAdmin(), topUpHandler.RejectTopUp)

	// ============================================================
	// Invoice routes
	// ============================================================
	invoices := apiV1.Group("/invoices", middleware.AuthMiddleware(cfg))
	invoices.Get("/me", invoiceHandler.MyInvoices)
	invoices.Get("/", middleware.OfficerOrAdmin(), invoiceHandler.ListInvoices)
	invoices.Get("/:id", invoiceHandler.GetInvoice)

	// ============================================================
	// Dashboard routes (officer/admin)
	// ============================================================
	apiV1.Get("/dashboard", middleware.AuthMiddleware(cfg), middleware.OfficerOrAdmin(), dashboardHandler.GetStats)

	// ============================================================
	// Admin routes
	// ============================================================
	admin := apiV1.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	admin.Get("/users", userHandler.ListUsers)
	admin.Get("/users/:id", userHandler.GetUser)
	admin.Put("/users/:id/role", userHandler.SetRole)
	admin.Put("/users/:id/associate", userHandler.SetAssociate)
	admin.Put("/users/:id/rate", userHandler.SetAssignedRate)
	admin.Put("/users/:id/active", userHandler.SetActive)
	admin.Delete("/users/:id", userHandler.DeleteUser)
	admin.Get("/audit", auditHandler.Search)
	admin.Post("/audit/corrections", auditHandler.AppendCorrection)
}
