package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

const (
	defaultLoginWindow      = 15 * time.Minute
	defaultLoginMaxAttempts = 5
)

// LoginThrottle limits failed logins per client address over a sliding window.
type LoginThrottle struct {
	store       ports.ThrottleStore
	window      time.Duration
	maxAttempts int
	clock       clock.Clock
	logger      zerolog.Logger
}

func NewLoginThrottle(store ports.ThrottleStore, window time.Duration, maxAttempts int, clk clock.Clock, logger zerolog.Logger) *LoginThrottle {
	if window <= 0 {
		window = defaultLoginWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultLoginMaxAttempts
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &LoginThrottle{store: store, window: window, maxAttempts: maxAttempts, clock: clk, logger: logger}
}

// Check returns a *domain.RateLimitError when key has exhausted its attempts.
func (t *LoginThrottle) Check(ctx context.Context, key string) error {
	now := t.clock.Now()
	count, oldest, err := t.store.Window(ctx, key, now, t.window)
	if err != nil {
		return fmt.Errorf("throttle window: %w", err)
	}
	if count < t.maxAttempts {
		return nil
	}
	retry := oldest.Add(t.window).Sub(now)
	if retry < time.Second {
		retry = time.Second
	}
	t.logger.Warn().Str("client", key).Int("failures", count).Dur("retry_after", retry).Msg("login throttled")
	return &domain.RateLimitError{RetryAfter: retry}
}

// RecordFailure registers one failed attempt for key.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	if err := t.store.Record(ctx, key, t.clock.Now(), t.window); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}
