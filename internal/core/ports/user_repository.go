package ports

import (
	"context"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// UserRepository is the credential store. Lockout counters are mutated with
// single atomic writes so concurrent logins cannot lose an increment.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// IncrementFailedLogins bumps the failure counter and returns its new value.
	IncrementFailedLogins(ctx context.Context, id string) (int, error)
	// ResetLoginState zeroes the failure counter and clears any lock.
	ResetLoginState(ctx context.Context, id string) error
	// LockUntil locks the account until the given instant and zeroes the counter.
	LockUntil(ctx context.Context, id string, until time.Time) error

	SetActive(ctx context.Context, id string, active bool) error
	SetRole(ctx context.Context, id string, role domain.Role) error
}
