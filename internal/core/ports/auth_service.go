package ports

import (
	"context"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries credentials plus the client address used as the
// throttle key.
type LoginInput struct {
	Email      string
	Password   string
	ClientAddr string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// Authenticate resolves a raw Authorization header to the caller identity.
	Authenticate(ctx context.Context, authorization string) (*domain.Identity, error)
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UserService covers account administration performed by staff.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	Lock(ctx context.Context, id string, d time.Duration) (*domain.User, error)
	Unlock(ctx context.Context, id string) (*domain.User, error)
}

// Authorizer answers access questions for an already authenticated caller.
type Authorizer interface {
	RequireRole(id *domain.Identity, allowed domain.RoleSet) error
	RequireOwnershipOrStaff(id *domain.Identity, ownerID string) error
	RequireReservationAccess(ctx context.Context, id *domain.Identity, reservationID string) (*domain.Reservation, error)
	RequireGuestAccess(ctx context.Context, id *domain.Identity, guestID string) (*domain.Guest, error)
}
