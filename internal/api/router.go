package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/therapyai/caseload/internal/api/handler"
	"github.com/therapyai/caseload/internal/api/middleware"
	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/core/service"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log       zerolog.Logger
	JWTSecret string
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// Prometheus default registry.
	Registry *prometheus.Registry

	Store        ports.Store
	StoreBackend string

	Guard      *service.Guard
	Auth       handler.Authenticator
	Users      ports.UserService
	Therapists ports.TherapistService
	Children   ports.ChildService
	Chats      ports.ChatService
	Feed       handler.ChatFeed
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
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(d.Registry)))

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	therapistHandler := handler.NewTherapistHandler(d.Therapists)
	childHandler := handler.NewChildHandler(d.Children)
	chatHandler := handler.NewChatHandler(d.Chats, d.Feed, d.Log)
	healthHandler := handler.NewHealthHandler(d.Store, d.StoreBackend)

	authMiddleware := middleware.Auth(d.JWTSecret)
	requireAuth := middleware.RBAC(d.Guard.RequireAuth)
	requireAdmin := middleware.RBAC(d.Guard.RequireAdmin)
	requireTherapist := middleware.RBAC(d.Guard.RequireTherapist)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, authMiddleware, requireAuth)

	v1 := e.Group("/v1", authMiddleware, requireAuth)

	// --- Admin workspace ---
	admin := v1.Group("", requireAdmin)
	admin.GET("/users", userHandler.List)
	admin.GET("/therapists", therapistHandler.List)
	admin.POST("/therapists", therapistHandler.Create)
	admin.PATCH("/therapists/:id", therapistHandler.Update)
	admin.DELETE("/therapists/:id", therapistHandler.Delete)
	admin.POST("/therapists/:id/password", therapistHandler.ResetPassword)

	// --- Therapist workspace ---
	v1.GET("/children", childHandler.List)
	v1.POST("/children", childHandler.Create, requireTherapist)
	v1.GET("/children/:id", childHandler.Get)
	v1.PATCH("/children/:id", childHandler.Update)
	v1.DELETE("/children/:id", childHandler.Delete)
	v1.POST("/children/:id/regenerate/:kind", childHandler.Regenerate, requireTherapist)

	// --- Child workspace ---
	v1.GET("/chats", chatHandler.Summaries)
	v1.GET("/children/:id/messages", chatHandler.List)
	v1.POST("/children/:id/messages", chatHandler.Post)
	v1.GET("/children/:id/feed", chatHandler.Feed)

	// --- Health probes, metrics, docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
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

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "caseload"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
