package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/netondemand/portal/internal/api/handler"
	"github.com/netondemand/portal/internal/api/middleware"
	"github.com/netondemand/portal/internal/core/domain"
	"github.com/netondemand/portal/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	StaticDir string
	Cookie    middleware.CookieConfig

	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Orders   ports.OrderService
	Profile  ports.ProfileService
	Activity ports.ActivityService

	// Checks run on /health/ready, keyed by dependency name.
	Checks map[string]handler.Check
	// Registerer receives the HTTP request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	sessions := middleware.NewSessions(d.Auth, d.Cookie, d.Log)
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, sessions)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal_http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Health, metrics and docs (no session required) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Everything below sees the restored session, if any.
	app := e.Group("", sessions.Load())
	protected := middleware.RequireSession()

	// --- JSON API ---
	authHandler := handler.NewAuthHandler(d.Auth, sessions)
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	orderHandler := handler.NewOrderHandler(d.Orders)
	profileHandler := handler.NewProfileHandler(d.Profile)
	activityHandler := handler.NewActivityHandler(d.Activity)

	apiGroup := app.Group("/api")
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.POST("/auth/logout", authHandler.Logout)
	apiGroup.GET("/auth/session", authHandler.Session)
	apiGroup.POST("/auth/refresh", authHandler.Refresh, protected)

	secured := apiGroup.Group("", protected)
	secured.GET("/dashboard", orderHandler.Dashboard)

	secured.GET("/services", catalogHandler.List)
	secured.GET("/services/paged", catalogHandler.Paged)
	secured.GET("/services/search", catalogHandler.Search)
	secured.GET("/services/bandwidth-adjustable", catalogHandler.BandwidthAdjustable)
	secured.GET("/services/:id", catalogHandler.Get)
	secured.GET("/categories", catalogHandler.Categories)
	secured.GET("/categories/:id", catalogHandler.Category)
	secured.GET("/service-types", catalogHandler.Types)

	secured.POST("/orders", orderHandler.Create)
	secured.GET("/orders", orderHandler.List)
	secured.GET("/orders/paged", orderHandler.Paged)
	secured.GET("/orders/search", orderHandler.Search)
	secured.GET("/orders/pending", orderHandler.Pending)
	secured.GET("/orders/recent", orderHandler.Recent)
	secured.GET("/orders/statistics", orderHandler.Statistics)
	secured.GET("/orders/number/:orderNumber", orderHandler.GetByNumber)
	secured.GET("/orders/:id", orderHandler.Get)
	secured.PUT("/orders/:id", orderHandler.Update)
	secured.POST("/orders/:id/cancel", orderHandler.Cancel)

	secured.GET("/profile", profileHandler.Get)
	secured.PUT("/profile", profileHandler.Update)
	secured.POST("/profile/password", profileHandler.ChangePassword)

	secured.GET("/activity", activityHandler.Mine)
	secured.GET("/admin/activity/:userId", activityHandler.ForUser, middleware.RequireRole(domain.RoleAdmin))

	// --- Pages ---
	pages := handler.NewPageHandler(d.StaticDir)
	app.GET("/", pages.ToDashboard)
	app.GET("/auth", pages.ToLogin)
	app.GET("/auth/login", pages.Index, middleware.GuestOnly())
	for _, p := range []string{"/dashboard", "/services", "/provisioning", "/bandwidth", "/monitoring", "/orders", "/profile", "/settings"} {
		app.GET(p, pages.Index, protected)
		app.GET(p+"/*", pages.Index, protected)
	}
	app.GET("/*", pages.Fallback)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
