package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
)

const (
	defaultLockTTL  = 10 * time.Second
	lockRetryPeriod = 25 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lease taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RoomLocker is a lease-based room lock shared across instances.
// Key format: lock:room:<room_id>
//
// A held lease is renewed every ttl/3 until released, so slow critical
// sections keep it. Exclusion is lost only if renewals fail for a whole TTL
// (Redis unreachable or the process stalled); that is logged, and the
// Postgres exclusion constraint still rejects overlapping stays. Mongo has no
// such backstop.
type RoomLocker struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRoomLocker(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RoomLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RoomLocker{client: client, ttl: ttl, log: log}
}

// Lock polls SET NX until it wins, ctx ends, or one lease TTL has passed.
func (l *RoomLocker) Lock(ctx context.Context, roomID string) (func(), error) {
	key := "lock:room:" + roomID
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	ticker := time.NewTicker(lockRetryPeriod)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: acquire room lock: %v", domain.ErrTransient, err)
		}
		if ok {
			return l.hold(key, token), nil
		}
		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: room %s is busy", domain.ErrTransient, roomID)
		case <-ticker.C:
		}
	}
}

// hold keeps the lease alive in the background and returns its release func.
func (l *RoomLocker) hold(key, token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			l.release(key, token)
		})
	}
}

func (l *RoomLocker) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		renewed, err := renewScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
		cancel()
		switch {
		case err != nil:
			l.log.Warn().Err(err).Str("key", key).Msg("renew room lock")
		case renewed == 0:
			l.log.Error().Str("key", key).Msg("room lock lease lost before release")
			return
		}
	}
}

func (l *RoomLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.log.Error().Err(err).Str("key", key).Msg("release room lock")
	}
}
