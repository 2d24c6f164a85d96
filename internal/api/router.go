package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/api/handler"
	"github.com/fullstacktime/projectman/internal/api/middleware"
	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// NewRouter builds the Echo instance serving the view layer: auth forms,
// the two dashboards and the project actions, all backed by the stores.
func NewRouter(session ports.Session, projects ports.Projects, backendURL string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("projectman"))

	// --- Dependencies ---
	forms := handler.NewFormValidator()
	authHandler := handler.NewAuthHandler(session, projects, forms)
	projectHandler := handler.NewProjectHandler(session, projects, forms)

	// --- Probes & metrics (no guard) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(backendURL).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Session routes ---
	e.GET("/", authHandler.Root)
	e.GET("/session", authHandler.Session)
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)
	e.DELETE("/session/error", authHandler.DismissError)

	// --- Guarded views ---
	workerGuard := middleware.RequireRoles(session, "/login", "/", domain.RoleWorker)
	adminGuard := middleware.RequireRoles(session, "/login", "/", domain.RoleAdmin)

	e.GET("/worker-dashboard", projectHandler.WorkerDashboard, workerGuard)
	e.GET("/admin-dashboard", projectHandler.AdminDashboard, adminGuard)

	// Mutations are worker-only; the backend enforces ownership on top.
	p := e.Group("/projects", workerGuard)
	p.POST("", projectHandler.Create)
	p.PUT("/:id", projectHandler.Update)
	p.DELETE("/:id", projectHandler.Delete)

	return e
}
