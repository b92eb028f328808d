package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

// LockoutPolicy locks an account for Duration once Threshold consecutive
// failed logins have been recorded against it.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

func (p LockoutPolicy) withDefaults() LockoutPolicy {
	if p.Threshold <= 0 {
		p.Threshold = 5
	}
	if p.Duration <= 0 {
		p.Duration = 30 * time.Minute
	}
	return p
}

// AuthService implements registration, login and request authentication.
type AuthService struct {
	users    ports.UserRepository
	tokens   *TokenService
	throttle *LoginThrottle
	lockout  LockoutPolicy
	clock    clock.Clock
	logger   zerolog.Logger
	hashCost int
}

func NewAuthService(users ports.UserRepository, tokens *TokenService, throttle *LoginThrottle, lockout LockoutPolicy, clk clock.Clock, logger zerolog.Logger) *AuthService {
	if clk == nil {
		clk = clock.Real()
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		throttle: throttle,
		lockout:  lockout.withDefaults(),
		clock:    clk,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates a self-service account. Public sign-up always yields the
// guest role.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, input.Username, input.Email, input.Password, domain.RoleGuest)
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", role.String()).Msg("user created")
	return user, nil
}

// Login verifies credentials and issues a token. The client address is
// throttled before anything else is looked at.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	if err := s.throttle.Check(ctx, input.ClientAddr); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		s.recordThrottleFailure(ctx, input.ClientAddr)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordThrottleFailure(ctx, input.ClientAddr)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.clock.Now()
	if user.IsLocked(now) {
		s.recordThrottleFailure(ctx, input.ClientAddr)
		return nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.recordThrottleFailure(ctx, input.ClientAddr)
		if err := s.recordAccountFailure(ctx, user, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	if user.FailedLoginCount > 0 || user.LockedUntil != nil {
		if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
			return nil, err
		}
		user.FailedLoginCount = 0
		user.LockedUntil = nil
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (s *AuthService) recordAccountFailure(ctx context.Context, user *domain.User, now time.Time) error {
	count, err := s.users.IncrementFailedLogins(ctx, user.ID)
	if err != nil {
		return err
	}
	if count < s.lockout.Threshold {
		return nil
	}
	until := now.Add(s.lockout.Duration)
	if err := s.users.LockUntil(ctx, user.ID, until); err != nil {
		return err
	}
	s.logger.Warn().Str("user_id", user.ID).Int("failures", count).Time("locked_until", until).Msg("account locked")
	return nil
}

// Throttle bookkeeping must never turn a credential failure into a 5xx.
func (s *AuthService) recordThrottleFailure(ctx context.Context, key string) {
	if err := s.throttle.RecordFailure(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("client", key).Msg("record login failure")
	}
}

// Authenticate resolves a raw Authorization header value to an identity.
// The role comes from the stored account, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, authorization string) (*domain.Identity, error) {
	token, err := bearerToken(authorization)
	if err != nil {
		return nil, err
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}
	if user.IsLocked(s.clock.Now()) {
		return nil, domain.ErrAccountLocked
	}
	return domain.IdentityOf(user), nil
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", domain.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrTokenMissing
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
