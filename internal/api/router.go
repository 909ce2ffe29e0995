package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/cdms/clinic-system/docs"
	"github.com/cdms/clinic-system/internal/api/handler"
	"github.com/cdms/clinic-system/internal/api/middleware"
	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Clinics  ports.ClinicService
	Patients ports.PatientService

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handler.Pinger
	Logger    zerolog.Logger

	// LoginRateLimit is the sustained login rate per client IP, in requests
	// per second. Zero disables the limiter.
	LoginRateLimit float64
	// MetricsRegisterer defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "clinic",
		Subsystem:  "http",
		Registerer: registerer,
	}))
	e.Use(middleware.Logger(deps.Logger))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	clinicHandler := handler.NewClinicHandler(deps.Clinics)
	patientHandler := handler.NewPatientHandler(deps.Patients)

	requireAuth := middleware.Auth(deps.Auth)
	optionalAuth := middleware.OptionalAuth(deps.Auth)
	superuserOnly := middleware.RequireSuperuser()
	clinicAdminOnly := middleware.RequireRole(domain.RoleClinicAdmin)

	// --- Auth routes ---
	loginMiddleware := []echo.MiddlewareFunc{}
	if deps.LoginRateLimit > 0 {
		loginMiddleware = append(loginMiddleware, loginLimiter(deps.LoginRateLimit))
	}
	e.POST("/register", authHandler.Register, optionalAuth)
	e.POST("/login", authHandler.Login, loginMiddleware...)
	e.POST("/token/refresh", authHandler.Refresh)
	e.POST("/logout", authHandler.Logout)
	e.GET("/users-list", userHandler.List, requireAuth, superuserOnly)

	// --- Clinic routes ---
	e.GET("/clinics", clinicHandler.List, requireAuth, superuserOnly)
	e.POST("/clinics/create-clinic", clinicHandler.Create, requireAuth, superuserOnly)
	e.PUT("/clinics/update/:id", clinicHandler.Update, requireAuth, superuserOnly)
	e.PATCH("/clinics/update/:id", clinicHandler.Update, requireAuth, superuserOnly)
	e.DELETE("/clinics/delete/:id", clinicHandler.Delete, requireAuth, superuserOnly)
	e.POST("/clinics/create-user", userHandler.CreateStaff, optionalAuth)
	e.GET("/clinics/details/:id", clinicHandler.Details, requireAuth)
	e.DELETE("/clinics/:clinic_id/doctors/:id", userHandler.DeleteClinicDoctor, requireAuth, clinicAdminOnly)
	e.GET("/clinics/:clinic_id/patients", patientHandler.ListByClinic, requireAuth)

	// --- Patient routes ---
	e.POST("/patients/create", patientHandler.Create, requireAuth)
	e.GET("/patients/details/:id", patientHandler.Details, requireAuth)
	e.PUT("/patients/edit/:id", patientHandler.Update, requireAuth)
	e.PATCH("/patients/edit/:id", patientHandler.Update, requireAuth)
	e.DELETE("/patients/delete/:id", patientHandler.Delete, requireAuth)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
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
