package api

import (
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/hotelcore/reservations/internal/api/handler"
	"github.com/hotelcore/reservations/internal/api/middleware"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log          zerolog.Logger
	RateLimit    float64 // requests per second per client IP, 0 disables
	Auth         ports.AuthService
	Users        ports.UserService
	Authz        ports.Authorizer
	Rooms        ports.RoomService
	Guests       ports.GuestService
	Reservations ports.ReservationService
	Availability ports.AvailabilityChecker
	Readiness    map[string]handlers.Pinger

	// Proxies allowed to set X-Forwarded-For. Without any, the TCP peer is the client.
	TrustedProxies []*net.IPNet
}

// bookers may work with reservations at all; guests are further limited to
// their own by the handlers.
var bookers = domain.NewRoleSet(domain.RoleGuest, domain.RoleReceptionist, domain.RoleManager, domain.RoleAdmin)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = NewIPExtractor(d.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "hotel-api")
	}))
	e.Use(echoprometheus.NewMiddleware("hotel"))
	e.Use(echomiddleware.BodyLimit("1M"))
	if d.RateLimit > 0 {
		e.Use(rateLimiter(d.RateLimit))
	}

	// --- Ops endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Auth(d.Auth)
	rbac := func(allowed domain.RoleSet) echo.MiddlewareFunc { return middleware.RBAC(d.Authz, allowed) }

	authHandler := handler.NewAuthHandler(d.Auth, d.Users, d.Guests, d.Log)
	userHandler := handler.NewUserHandler(d.Users, d.Authz)
	roomHandler := handler.NewRoomHandler(d.Rooms, d.Availability)
	guestHandler := handler.NewGuestHandler(d.Guests, d.Authz)
	reservationHandler := handler.NewReservationHandler(d.Reservations, d.Guests, d.Authz)

	v1 := e.Group("/v1")

	// --- Auth ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", authHandler.Me, authn)

	// --- Users ---
	users := v1.Group("/users", authn)
	users.POST("", userHandler.Create, rbac(domain.AdminOnly))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/role", userHandler.ChangeRole, rbac(domain.AdminOnly))
	users.PUT("/:id/active", userHandler.SetActive, rbac(domain.AdminOnly))
	users.POST("/:id/lock", userHandler.Lock, rbac(domain.ManagerOrAbove))
	users.POST("/:id/unlock", userHandler.Unlock, rbac(domain.ManagerOrAbove))

	// --- Rooms ---
	v1.GET("/rooms", roomHandler.List, middleware.OptionalAuth(d.Auth))
	v1.GET("/rooms/:id/availability", roomHandler.Availability)
	v1.POST("/rooms", roomHandler.Create, authn, rbac(domain.ManagerOrAbove))
	v1.PATCH("/rooms/:id/status", roomHandler.UpdateStatus, authn, rbac(domain.Staff))

	// --- Guests ---
	guests := v1.Group("/guests", authn)
	guests.POST("", guestHandler.Create, rbac(domain.ReceptionistOrAbove))
	guests.GET("/:id", guestHandler.Get)

	// --- Reservations ---
	desk := rbac(domain.ReceptionistOrAbove)
	reservations := v1.Group("/reservations", authn, rbac(bookers))
	reservations.POST("", reservationHandler.Create)
	reservations.GET("", reservationHandler.List)
	reservations.GET("/:id", reservationHandler.Get)
	reservations.PATCH("/:id", reservationHandler.Update)
	reservations.POST("/:id/cancel", reservationHandler.Cancel)
	reservations.POST("/:id/confirm", reservationHandler.Confirm, desk)
	reservations.POST("/:id/check-in", reservationHandler.CheckIn, desk)
	reservations.POST("/:id/check-out", reservationHandler.CheckOut, desk)
	reservations.POST("/:id/no-show", reservationHandler.NoShow, desk)

	return e
}

// NewIPExtractor decides what c.RealIP returns, which keys both the login
// throttle and the API rate limiter. Forwarding headers are only honoured
// when the peer is one of the trusted proxies.
func NewIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// rateLimiter caps every client IP at rps requests per second with a burst
// of twice that. Denials use the regular 429 envelope.
func rateLimiter(rps float64) echo.MiddlewareFunc {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/health" || p == "/health/ready" || p == "/metrics"
		},
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(rps),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return &domain.RateLimitError{RetryAfter: time.Second}
		},
	})
}
