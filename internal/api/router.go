package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/wastemap/platform-api/docs"
	"github.com/wastemap/platform-api/internal/api/handler"
	"github.com/wastemap/platform-api/internal/api/middleware"
	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
	"github.com/wastemap/platform-api/internal/core/service"
	mongodb "github.com/wastemap/platform-api/internal/infrastructure/db/mongo"
	redisdb "github.com/wastemap/platform-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The notifier is constructed by the caller so its worker lifecycle can be
// tied to the process context.
func NewRouter(db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("wastemap"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	reportRepo := mongodb.NewReportRepository(db)
	teamRepo := mongodb.NewTeamRepository(db)
	throttle := redisdb.NewResetThrottle(rdb, 0)

	tokens := service.NewTokenService(jwtSecret, tokenTTL)
	authService := service.NewAuthService(userRepo, tokens, throttle, log)
	reportService := service.NewReportService(reportRepo, notifier, log)
	adminService := service.NewAdminService(userRepo, teamRepo, reportRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	adminHandler := handler.NewAdminHandler(adminService)

	authn := middleware.Auth(tokens, userRepo)
	passwordCurrent := middleware.RequirePasswordCurrent()

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/request-password-reset", authHandler.RequestReset)
	auth.GET("/me", authHandler.Me, authn)
	// change-password stays reachable behind a forced reset; it is the only
	// way out of that state.
	auth.POST("/change-password", authHandler.ChangePassword, authn)

	// --- Report routes ---
	reports := e.Group("/api/reports", authn, passwordCurrent)
	reports.POST("", reportHandler.Create, middleware.Authorize(domain.ActionViewOwnReports))
	reports.GET("", reportHandler.List, middleware.Authorize(domain.ActionViewOwnReports))
	reports.GET("/nearby", reportHandler.Nearby, middleware.Authorize(domain.ActionViewOwnReports))
	reports.GET("/:id", reportHandler.Get, middleware.Authorize(domain.ActionViewOwnReports))
	reports.PUT("/:id/status", reportHandler.UpdateStatus, middleware.Authorize(domain.ActionChangeReportStatus))
	reports.PUT("/:id/assign", reportHandler.Assign, middleware.Authorize(domain.ActionAssignReport))

	// --- Admin routes ---
	admin := e.Group("/api/admin", authn, passwordCurrent)
	admin.GET("/users", adminHandler.ListUsers, middleware.Authorize(domain.ActionManageUsers))
	admin.POST("/users", adminHandler.CreateUser, middleware.Authorize(domain.ActionManageUsers))
	admin.PUT("/users/:id", adminHandler.UpdateUser, middleware.Authorize(domain.ActionManageUsers))
	admin.DELETE("/users/:id", adminHandler.DeleteUser, middleware.Authorize(domain.ActionManageUsers))

	admin.GET("/teams", adminHandler.ListTeams, middleware.Authorize(domain.ActionManageTeams))
	admin.POST("/teams", adminHandler.CreateTeam, middleware.Authorize(domain.ActionManageTeams))
	admin.PUT("/teams/:id", adminHandler.UpdateTeam, middleware.Authorize(domain.ActionManageTeams))

	admin.GET("/dashboard", adminHandler.Dashboard, middleware.Authorize(domain.ActionViewDashboard))
	admin.GET("/optimize-routes", adminHandler.PlanRoutes, middleware.Authorize(domain.ActionPlanRoutes))

	admin.GET("/password-reset-requests", authHandler.PendingResetRequests, middleware.Authorize(domain.ActionViewResetRequests))
	admin.POST("/reset-password/:id", authHandler.OperatorResetPassword, middleware.Authorize(domain.ActionFulfilReset))

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
