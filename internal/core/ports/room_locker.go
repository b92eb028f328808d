package ports

import "context"

// RoomLocker serialises the check-then-write sequence for a single room.
// The returned release func must be called exactly once.
type RoomLocker interface {
	Lock(ctx context.Context, roomID string) (release func(), err error)
}
