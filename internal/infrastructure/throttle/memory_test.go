package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestMemory_Window(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	window := 15 * time.Minute

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Record(ctx, "ip", t0.Add(time.Duration(i)*time.Minute), window))
	}

	count, oldest, err := m.Window(ctx, "ip", t0.Add(5*time.Minute), window)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.Equal(t, t0, oldest)

	count, oldest, err = m.Window(ctx, "ip", t0.Add(15*time.Minute), window)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, t0.Add(time.Minute), oldest)

	count, _, err = m.Window(ctx, "other", t0, window)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestMemory_Sweep(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Record(ctx, "old", t0, time.Minute))
	require.NoError(t, m.Record(ctx, "new", t0.Add(time.Hour), time.Minute))

	require.Equal(t, 1, m.Sweep(t0.Add(30*time.Minute)))
	count, _, _ := m.Window(ctx, "new", t0.Add(time.Hour), time.Minute)
	require.Equal(t, 1, count)
}
