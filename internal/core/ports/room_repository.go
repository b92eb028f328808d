package ports

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// RoomFilter narrows a room listing. Zero values mean no filter.
type RoomFilter struct {
	Status       domain.RoomStatus
	BookableOnly bool
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	FindByID(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context, filter RoomFilter) ([]*domain.Room, error)
	UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) error
}
