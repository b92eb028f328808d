package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestKind(t *testing.T) {
	cases := map[error]string{
		ErrTokenExpired:                          "unauthenticated",
		ErrAccountLocked:                         "unauthenticated",
		fmt.Errorf("load: %w", ErrRoomNotFound):  "not_found",
		ErrBookingConflict:                       "conflict",
		ErrStaleStatus:                           "conflict",
		&RateLimitError{RetryAfter: time.Minute}: "rate_limited",
		ErrRoomUnavailable:                       "room_unavailable",
		errors.New("boom"):                       "internal",
	}
	for err, want := range cases {
		if got := Kind(err); got != want {
			t.Errorf("Kind(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestRefinementsAreDistinct(t *testing.T) {
	if errors.Is(ErrTokenExpired, ErrTokenMalformed) || errors.Is(ErrTokenMalformed, ErrTokenExpired) {
		t.Fatalf("expired and malformed must be distinguishable")
	}
	if !errors.Is(ErrTokenExpired, ErrUnauthenticated) {
		t.Fatalf("token errors must wrap ErrUnauthenticated")
	}
}
