// Package lock provides the in-process room lock used when a single
// instance serves all traffic.
package lock

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/hotelcore/reservations/internal/core/domain"
)

const defaultStripes = 64

// Local serialises work per room with a fixed set of striped semaphores.
// Two rooms may share a stripe; that only costs throughput, never safety.
type Local struct {
	stripes []chan struct{}
}

func NewLocal(stripes int) *Local {
	if stripes <= 0 {
		stripes = defaultStripes
	}
	l := &Local{stripes: make([]chan struct{}, stripes)}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock blocks until the room's stripe is free or ctx is done.
func (l *Local) Lock(ctx context.Context, roomID string) (func(), error) {
	sem := l.stripes[l.stripeIndex(roomID)]
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: room %s is busy: %v", domain.ErrTransient, roomID, ctx.Err())
	}
}

// stripeIndex maps a room id deterministically to a stripe.
func (l *Local) stripeIndex(roomID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(roomID))
	return int(h.Sum32() % uint32(len(l.stripes)))
}
