package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 7 * 24 * time.Hour

// DedupChecker makes side effects idempotent across retries and instances.
// Key format: dedup:<scope>:<id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// FirstSeen atomically marks (scope, id) and reports whether this call was
// the first to do so.
func (d *DedupChecker) FirstSeen(ctx context.Context, scope, id string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(scope, id), "1", dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return ok, nil
}

// Forget removes the mark so a failed side effect can be retried.
func (d *DedupChecker) Forget(ctx context.Context, scope, id string) error {
	return d.client.Del(ctx, d.key(scope, id)).Err()
}

func (d *DedupChecker) key(scope, id string) string {
	return fmt.Sprintf("dedup:%s:%s", scope, id)
}
