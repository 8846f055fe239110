package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/attireme/auth-service/internal/api/handler"
	"github.com/attireme/auth-service/internal/api/middleware"
	"github.com/attireme/auth-service/internal/core/domain"
	"github.com/attireme/auth-service/internal/core/ports"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Accounts  ports.AccountService
	Refresher ports.TokenRefresher
	Policies  ports.PolicyChecker
	Tokens    middleware.TokenValidator
	Checks    map[string]handler.Check
	Log       zerolog.Logger
	// Registerer receives the HTTP request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "auth",
		Registerer: registerer,
	}))

	accounts := handler.NewAccountHandler(deps.Accounts, deps.Refresher)
	policies := handler.NewPolicyHandler(deps.Policies)
	profiles := handler.NewProfileHandler(deps.Accounts)
	admin := handler.NewAdminHandler(deps.Accounts)
	auth := middleware.Auth(deps.Tokens)

	// --- Account lifecycle ---
	e.POST("/register", accounts.Register)
	e.POST("/authenticate", accounts.Authenticate)
	e.POST("/confirm-email", accounts.ConfirmEmail)
	e.POST("/request-password-reset", accounts.RequestPasswordReset)
	e.POST("/confirm-password-reset", accounts.ConfirmPasswordReset)
	e.POST("/refresh-token", accounts.RefreshToken)

	// --- Policies ---
	e.POST("/user-policy", policies.UserPolicy)
	e.POST("/creator-policy", policies.CreatorPolicy)
	e.POST("/admin-policy", policies.AdminPolicy)

	// --- Profiles ---
	e.GET("/user/:email", profiles.GetProfile)
	e.PUT("/user/:email", profiles.UpdateUser, auth)
	e.PUT("/creator/:email", profiles.UpdateCreator, auth)

	// --- Administration ---
	adminGroup := e.Group("/admin", auth, middleware.RBAC(domain.RoleAdmin))
	adminGroup.DELETE("/users/:email", admin.DeleteUser)

	// --- Health and metrics (no auth required) ---
	health := handler.NewHealthHandler(deps.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

// requestLogger emits one zerolog event per request.
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
			event := log.Info()
			if v.Error != nil || v.Status >= 500 {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
