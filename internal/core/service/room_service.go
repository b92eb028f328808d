package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

type RoomService struct {
	repo   ports.RoomRepository
	clock  clock.Clock
	logger zerolog.Logger
}

func NewRoomService(repo ports.RoomRepository, clk clock.Clock, logger zerolog.Logger) *RoomService {
	if clk == nil {
		clk = clock.Real()
	}
	return &RoomService{repo: repo, clock: clk, logger: logger}
}

func (s *RoomService) Create(ctx context.Context, input ports.CreateRoomInput) (*domain.Room, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: room number is required", domain.ErrInvalidInput)
	}
	if input.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", domain.ErrInvalidInput)
	}
	now := s.clock.Now()
	room := &domain.Room{
		ID:        uuid.NewString(),
		Number:    number,
		Type:      strings.TrimSpace(input.Type),
		Capacity:  input.Capacity,
		Status:    domain.RoomAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info().Str("room_id", room.ID).Str("number", room.Number).Msg("room created")
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id string) (*domain.Room, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RoomService) List(ctx context.Context, filter ports.RoomFilter) ([]*domain.Room, error) {
	return s.repo.List(ctx, filter)
}

func (s *RoomService) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) (*domain.Room, error) {
	if _, err := domain.ParseRoomStatus(string(status)); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
