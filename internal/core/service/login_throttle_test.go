package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

func TestLoginThrottle_SlidingWindow(t *testing.T) {
	clk := clock.NewFake(testNow)
	th := NewLoginThrottle(newStubThrottleStore(), 15*time.Minute, 3, clk, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := th.Check(ctx, "ip"); err != nil {
			t.Fatalf("attempt %d should be allowed: %v", i+1, err)
		}
		_ = th.RecordFailure(ctx, "ip")
		clk.Advance(2 * time.Minute)
	}

	err := th.Check(ctx, "ip")
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	// oldest at t0, now t0+6m, window 15m
	if rl.RetryAfter != 9*time.Minute {
		t.Fatalf("expected 9m retry, got %s", rl.RetryAfter)
	}

	clk.Advance(9 * time.Minute)
	if err := th.Check(ctx, "ip"); err != nil {
		t.Fatalf("expected window to slide, got %v", err)
	}
}

func TestLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(newStubThrottleStore(), 0, 0, nil, zerolog.Nop())
	if th.window != 15*time.Minute || th.maxAttempts != 5 {
		t.Fatalf("unexpected defaults: %s / %d", th.window, th.maxAttempts)
	}
}
