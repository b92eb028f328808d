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

type GuestService struct {
	repo   ports.GuestRepository
	clock  clock.Clock
	logger zerolog.Logger
}

func NewGuestService(repo ports.GuestRepository, clk clock.Clock, logger zerolog.Logger) *GuestService {
	if clk == nil {
		clk = clock.Real()
	}
	return &GuestService{repo: repo, clock: clk, logger: logger}
}

func (s *GuestService) Create(ctx context.Context, input ports.CreateGuestInput) (*domain.Guest, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	guest := &domain.Guest{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, guest); err != nil {
		return nil, err
	}
	s.logger.Info().Str("guest_id", guest.ID).Msg("guest created")
	return guest, nil
}

func (s *GuestService) Get(ctx context.Context, id string) (*domain.Guest, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *GuestService) FindByEmail(ctx context.Context, email string) ([]*domain.Guest, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}
