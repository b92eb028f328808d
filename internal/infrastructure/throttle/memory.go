// Package throttle holds the single-instance failed-login store.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Memory keeps per-key attempt timestamps in process memory.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	attempts []time.Time
	lastSeen time.Time
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]*bucket)}
}

func (m *Memory) Record(_ context.Context, key string, at time.Time, window time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{}
		m.buckets[key] = b
	}
	b.attempts = append(prune(b.attempts, at.Add(-window)), at)
	b.lastSeen = at
	return nil
}

func (m *Memory) Window(_ context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok {
		return 0, time.Time{}, nil
	}
	b.attempts = prune(b.attempts, now.Add(-window))
	if len(b.attempts) == 0 {
		return 0, time.Time{}, nil
	}
	return len(b.attempts), b.attempts[0], nil
}

// prune drops attempts at or before cutoff. attempts is kept in insertion
// order, which is chronological for a monotonic clock.
func prune(attempts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(attempts) && !attempts[i].After(cutoff) {
		i++
	}
	return attempts[i:]
}

// Sweep forgets keys not seen since before cutoff.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle keys every interval until ctx is cancelled.
func (m *Memory) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now.Add(-idle))
		}
	}
}
