package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	_ "github.com/leadflow/crm-api/internal/api/docs"
	"github.com/leadflow/crm-api/internal/api/handler"
	"github.com/leadflow/crm-api/internal/api/middleware"
	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Log           zerolog.Logger
	ServiceName   string
	Authenticator middleware.Authenticator
	AuthService   ports.AuthService
	LeadService   ports.LeadService
	Readiness     map[string]handler.Pinger

	// AuthRatePerSecond and AuthBurst throttle login and register per client
	// IP. A zero rate disables throttling.
	AuthRatePerSecond float64
	AuthBurst         int

	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	// Empty allows any origin.
	CORSAllowedOrigins []string

	// Metrics enables the Prometheus middleware and /metrics. It registers
	// collectors on the default registry, so only one router per process may
	// enable it.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(corsMiddleware(d.CORSAllowedOrigins))
	if d.ServiceName != "" {
		e.Use(otelecho.Middleware(d.ServiceName))
	}
	e.Use(middleware.RequestLogger(d.Log))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("crm"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Health checks (no auth required) ---
	api.GET("/health", handler.NewHealthHandler().Liveness)
	api.GET("/health/ready", handler.NewReadinessHandler(d.Readiness).Readiness)

	authn := middleware.Authenticate(d.Authenticator)
	authHandler := handler.NewAuthHandler(d.AuthService)

	// --- Auth routes ---
	auth := api.Group("/auth")
	var throttle []echo.MiddlewareFunc
	if d.AuthRatePerSecond > 0 {
		throttle = append(throttle, authRateLimiter(d.AuthRatePerSecond, d.AuthBurst))
	}
	auth.POST("/register", authHandler.Register, throttle...)
	auth.POST("/login", authHandler.Login, throttle...)
	auth.GET("/profile", authHandler.Profile, authn)
	auth.POST("/logout", authHandler.Logout, authn)

	// --- Users (assignee pickers) ---
	api.GET("/users", authHandler.ListUsers, authn, middleware.RequireRoles(domain.RoleAdmin, domain.RoleSalesManager))

	// --- Leads: the only route group that reaches lead data ---
	leadHandler := handler.NewLeadHandler(d.LeadService)
	leads := api.Group("/leads", authn, middleware.RequireRoles(domain.AllRoles()...))
	leads.GET("", leadHandler.List)
	leads.POST("", leadHandler.Create)
	leads.GET("/:id", leadHandler.Get)
	leads.PUT("/:id", leadHandler.Update)
	leads.DELETE("/:id", leadHandler.Delete)
	leads.GET("/:id/activities", leadHandler.ListActivities)
	leads.POST("/:id/activities", leadHandler.AddActivity)

	return e
}

// corsMiddleware answers preflight requests before any route group, so the
// browser never has to present a token for an OPTIONS request.
func corsMiddleware(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
		MaxAge:        600,
	})
}

func authRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}
