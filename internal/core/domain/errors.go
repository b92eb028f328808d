package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds. Every failure surfaced by the core matches exactly one of
// these with errors.Is; the HTTP layer maps them to status codes.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrRateLimited       = errors.New("rate limited")
	ErrRoomUnavailable   = errors.New("room unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTransient         = errors.New("temporarily unavailable")
)

// Refinements. Each wraps its kind.
var (
	ErrTokenMissing       = fmt.Errorf("%w: missing token", ErrUnauthenticated)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenMalformed     = fmt.Errorf("%w: token malformed", ErrUnauthenticated)
	ErrAccountInactive    = fmt.Errorf("%w: account inactive", ErrUnauthenticated)
	ErrAccountLocked      = fmt.Errorf("%w: account locked", ErrUnauthenticated)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrUnknownSubject     = fmt.Errorf("%w: unknown subject", ErrUnauthenticated)

	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrGuestNotFound       = fmt.Errorf("guest %w", ErrNotFound)
	ErrRoomNotFound        = fmt.Errorf("room %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)

	ErrUserExists      = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrRoomExists      = fmt.Errorf("%w: room number already exists", ErrConflict)
	ErrBookingConflict = fmt.Errorf("%w: room already booked for the requested dates", ErrConflict)
	ErrStaleStatus     = fmt.Errorf("%w: reservation changed concurrently", ErrConflict)
)

// RateLimitError carries the retry-after hint of a throttled request.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// Kind returns the stable name of the error's kind, or "internal" when err
// matches none of them.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrRoomUnavailable):
		return "room_unavailable"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "internal"
	}
}
