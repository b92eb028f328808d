package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// UserService performs account administration. It shares the AuthService's
// repository and clock so lock state stays consistent with login.
type UserService struct {
	auth *AuthService
}

func NewUserService(auth *AuthService) *UserService {
	return &UserService{auth: auth}
}

func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.auth.createUser(ctx, input.Username, input.Email, input.Password, input.Role)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.auth.users.FindByID(ctx, id)
}

func (s *UserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
	}
	if err := s.auth.users.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	s.auth.logger.Info().Str("user_id", id).Str("role", role.String()).Msg("role changed")
	return s.auth.users.FindByID(ctx, id)
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	if err := s.auth.users.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	s.auth.logger.Info().Str("user_id", id).Bool("active", active).Msg("account activation changed")
	return s.auth.users.FindByID(ctx, id)
}

// Lock locks the account for d starting now.
func (s *UserService) Lock(ctx context.Context, id string, d time.Duration) (*domain.User, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: lock duration must be positive", domain.ErrInvalidInput)
	}
	until := s.auth.clock.Now().Add(d)
	if err := s.auth.users.LockUntil(ctx, id, until); err != nil {
		return nil, err
	}
	s.auth.logger.Info().Str("user_id", id).Time("locked_until", until).Msg("account locked by staff")
	return s.auth.users.FindByID(ctx, id)
}

func (s *UserService) Unlock(ctx context.Context, id string) (*domain.User, error) {
	if err := s.auth.users.ResetLoginState(ctx, id); err != nil {
		return nil, err
	}
	return s.auth.users.FindByID(ctx, id)
}
