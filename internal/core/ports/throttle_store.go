package ports

import (
	"context"
	"time"
)

// ThrottleStore keeps per-key timestamps of failed attempts. The in-memory
// implementation serves a single instance; the Redis one is shared.
type ThrottleStore interface {
	// Record stores an attempt for key at the given instant. Entries older
	// than window may be discarded.
	Record(ctx context.Context, key string, at time.Time, window time.Duration) error
	// Window returns how many attempts for key fall within (now-window, now]
	// and the oldest of them.
	Window(ctx context.Context, key string, now time.Time, window time.Duration) (count int, oldest time.Time, err error)
}
