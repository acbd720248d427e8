package routes

import (
	"time"

	"eazicred/internal/adapters/cache"
	"eazicred/internal/adapters/events"
	"eazicred/internal/adapters/http/handlers"
	"eazicred/internal/adapters/http/middleware"
	"eazicred/internal/adapters/notify"
	"eazicred/internal/adapters/persistence/repositories"
	"eazicred/internal/config"
	"eazicred/internal/core/domain"
	"eazicred/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Infra holds the outbound adapters shared by the services
type Infra struct {
	Cache     *cache.Client
	Publisher events.Publisher
	Notifier  notify.Notifier
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, infra Infra) {
	// Initialize repositories
	repos := repositories.NewRepos(db)
	transactor := repositories.NewTransactor(db)

	// Initialize services
	notifications := services.NewNotificationService(infra.Notifier, cfg.Mail.Timeout)
	otpService := services.NewOTPService(repos.Users, repos.OTPs, notifications, infra.Cache, cfg.OTP)
	authService := services.NewAuthService(repos.Users, repos.Companies, otpService, cfg.JWT)
	registrationService := services.NewRegistrationService(repos.Users, repos.Companies, transactor, otpService)
	companyService := services.NewCompanyService(repos.Companies, repos.Users, transactor)
	loanService := services.NewLoanService(repos.Loans, repos.Companies, repos.Users, transactor, notifications, infra.Publisher)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, infra.Cache)
	authHandler := handlers.NewAuthHandler(authService, registrationService, cfg)
	companyHandler := handlers.NewCompanyHandler(companyService)
	loanHandler := handlers.NewLoanHandler(loanService)

	// ============================================================
	// Public routes
	// ============================================================
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")
	api.Get("/", healthHandler.APIInfo)

	authMW := middleware.AuthMiddleware(authService)

	// ============================================================
	// Auth routes
	// ============================================================
	auth := api.Group("/auth", middleware.NoCacheHeaders())
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	auth.Post("/validate-otp", middleware.AuthRateLimiter(), authHandler.ValidateOTP)
	auth.Post("/resend-otp", middleware.AuthRateLimiter(), authHandler.ResendOTP)
	auth.Post("/register-company-user", middleware.AuthRateLimiter(), authHandler.RegisterCompanyUser)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", authMW, authHandler.Me)

	// ============================================================
	// Company routes
	// ============================================================
	companies := api.Group("/companies", authMW)
	companies.Get("/slug/:slug", middleware.PrivateCacheHeaders(time.Minute), companyHandler.GetCompanyBySlug)
	companies.Get("/:id", middleware.PrivateCacheHeaders(time.Minute), companyHandler.GetCompany)
	companies.Patch("/:id", middleware.RoleMiddleware(domain.RoleHR), companyHandler.UpdateCompany)
	companies.Delete("/:id", middleware.LenderOnly(), companyHandler.DeleteCompany)
	companies.Post("/:id/employees/:userId", middleware.RoleMiddleware(domain.RoleHR), companyHandler.AddEmployee)
	companies.Delete("/:id/employees/:userId", middleware.RoleMiddleware(domain.RoleHR), companyHandler.RemoveEmployee)

	// ============================================================
	// Loan routes
	// ============================================================
	loans := api.Group("/loans")
	loans.Post("/apply", loanHandler.Apply)

	managers := middleware.LoanManagers()
	loans.Get("/company/:companyId", authMW, managers, loanHandler.ListCompanyLoans)
	loans.Get("/company/:companyId/analytics", authMW, managers, loanHandler.CompanyAnalytics)
	loans.Get("/:loanId", authMW, managers, loanHandler.GetLoan)
	loans.Get("/:loanId/history", authMW, managers, loanHandler.GetLoanHistory)
	loans.Patch("/:loanId/status", authMW, managers, loanHandler.UpdateLoanStatus)
}
