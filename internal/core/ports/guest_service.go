package ports

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
)

type CreateGuestInput struct {
	Name  string
	Email string
	Phone string
}

type GuestService interface {
	Create(ctx context.Context, input CreateGuestInput) (*domain.Guest, error)
	Get(ctx context.Context, id string) (*domain.Guest, error)
	FindByEmail(ctx context.Context, email string) ([]*domain.Guest, error)
}
