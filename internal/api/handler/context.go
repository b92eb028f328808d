package handler

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/api/middleware"
	"github.com/hotelcore/reservations/internal/core/domain"
)

// requireIdentity returns the caller injected by the Auth middleware. A nil
// identity means the route was mounted without Auth; reject rather than
// guess.
func requireIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}

// bind decodes the request into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: malformed request", domain.ErrInvalidInput)
	}
	return c.Validate(req)
}

// optionalDate parses a YYYY-MM-DD query value. Empty yields the zero time.
func optionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", domain.ErrInvalidInput, field)
	}
	return t, nil
}
