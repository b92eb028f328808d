package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// ThrottleStore keeps failed-login timestamps in a sorted set per key so
// every instance sees the same window.
// Key format: throttle:login:<key>
type ThrottleStore struct {
	client *redis.Client
}

func NewThrottleStore(client *redis.Client) *ThrottleStore {
	return &ThrottleStore{client: client}
}

func (s *ThrottleStore) Record(ctx context.Context, key string, at time.Time, window time.Duration) error {
	k := throttleKey(key)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, k, "-inf", score(at.Add(-window)))
		// The member only has to be unique; the score carries the time.
		p.ZAdd(ctx, k, redis.Z{Score: float64(at.UnixMilli()), Member: uuid.NewString()})
		p.PExpire(ctx, k, window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: throttle record: %v", domain.ErrTransient, err)
	}
	return nil
}

func (s *ThrottleStore) Window(ctx context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	k := throttleKey(key)
	var oldest *redis.ZSliceCmd
	var count *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, k, "-inf", score(now.Add(-window)))
		count = p.ZCard(ctx, k)
		oldest = p.ZRangeWithScores(ctx, k, 0, 0)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: throttle window: %v", domain.ErrTransient, err)
	}
	first := oldest.Val()
	if len(first) == 0 {
		return 0, time.Time{}, nil
	}
	return int(count.Val()), time.UnixMilli(int64(first[0].Score)).UTC(), nil
}

func throttleKey(key string) string { return "throttle:login:" + key }

// score renders t as an inclusive ZSET bound. Millisecond scores stay exact
// in a float64.
func score(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }
