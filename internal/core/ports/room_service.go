package ports

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
)

type CreateRoomInput struct {
	Number   string
	Type     string
	Capacity int
}

type RoomService interface {
	Create(ctx context.Context, input CreateRoomInput) (*domain.Room, error)
	Get(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context, filter RoomFilter) ([]*domain.Room, error)
	UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) (*domain.Room, error)
}
