package api

import (
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/authuser/accounts/docs"
	"github.com/authuser/accounts/internal/api/handler"
	"github.com/authuser/accounts/internal/api/metrics"
	"github.com/authuser/accounts/internal/api/middleware"
	"github.com/authuser/accounts/internal/core/domain"
	"github.com/authuser/accounts/internal/core/ports"
)

// Dependencies is everything the router needs from main.
type Dependencies struct {
	Accounts ports.AccountService
	Sessions ports.SessionService
	Events   ports.EventPublisher
	Checks   map[string]handler.Check

	Cookie middleware.SessionCookie
	// CookieSecret signs the external-login cookie.
	CookieSecret string
	// Secure marks every cookie Secure; set it when served over TLS.
	Secure bool

	// Registry receives the HTTP and account metrics. Nil means the
	// Prometheus default.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
		if err := metrics.Register(deps.Registry); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	external := sessions.NewCookieStore([]byte(deps.CookieSecret))
	external.Options = &sessions.Options{Path: "/", HttpOnly: true, Secure: deps.Secure}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(session.Middleware(external))
	e.Use(middleware.Session(deps.Sessions, deps.Cookie, deps.Log))

	// --- Dependencies ---
	accountHandler := handler.NewAccountHandler(deps.Accounts, deps.Sessions, deps.Events, deps.Cookie, deps.Log)
	homeHandler := handler.NewHomeHandler(deps.Accounts, deps.Log)
	csrf := middleware.CSRF(deps.Secure)
	requireAdmin := []echo.MiddlewareFunc{middleware.RequireAuth(), middleware.RBAC(domain.RoleAdmin)}

	// --- Pages ---
	e.GET("/", homeHandler.Index, csrf)

	account := e.Group("/account", csrf)
	account.GET("/register", accountHandler.ShowRegister)
	account.POST("/register", accountHandler.Register)
	account.GET("/login", accountHandler.ShowLogin)
	account.POST("/login", accountHandler.Login)
	account.POST("/logout", accountHandler.Logout, middleware.RequireAuth())
	account.GET("/adduser", accountHandler.ShowAddUser, requireAdmin...)
	account.POST("/adduser", accountHandler.AddUser, requireAdmin...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
