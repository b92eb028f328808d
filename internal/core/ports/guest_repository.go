package ports

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
)

type GuestRepository interface {
	Create(ctx context.Context, guest *domain.Guest) error
	FindByID(ctx context.Context, id string) (*domain.Guest, error)
	// FindByEmail returns every guest record sharing the contact email.
	FindByEmail(ctx context.Context, email string) ([]*domain.Guest, error)
}
