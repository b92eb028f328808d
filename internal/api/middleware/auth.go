package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/api/metrics"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// IdentityKey is the echo context key holding the *domain.Identity of an
// authenticated request.
const IdentityKey = "identity"

// IdentityFrom returns the identity attached by Auth or OptionalAuth, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}

// Auth authenticates the bearer token and injects the caller's identity into
// the context. Requests without a valid token never reach next.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := auth.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}
			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

// OptionalAuth attaches an identity when the request carries a valid token.
// Missing or invalid tokens are counted and the request continues anonymously.
func OptionalAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			id, err := auth.Authenticate(c.Request().Context(), header)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return next(c)
			}
			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrAccountLocked):
		return "locked"
	}
	return "other"
}
