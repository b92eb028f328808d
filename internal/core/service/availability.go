package service

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// Availability detects double bookings. Only confirmed and checked-in
// reservations hold a room; pending ones do not.
type Availability struct {
	reservations ports.ReservationRepository
	rooms        ports.RoomRepository
}

func NewAvailability(reservations ports.ReservationRepository, rooms ports.RoomRepository) *Availability {
	return &Availability{reservations: reservations, rooms: rooms}
}

// HasConflict reports whether another blocking reservation on roomID overlaps
// stay. excludeID lets a reservation ignore itself when it is being moved.
func (a *Availability) HasConflict(ctx context.Context, roomID string, stay domain.DateRange, excludeID string) (bool, error) {
	candidates, err := a.reservations.FindOverlapping(ctx, roomID, stay, domain.BlockingStatuses)
	if err != nil {
		return false, err
	}
	for _, r := range candidates {
		if r.ID == excludeID {
			continue
		}
		if r.Blocks(roomID, stay) {
			return true, nil
		}
	}
	return false, nil
}

// Available combines the room's own status with HasConflict.
func (a *Availability) Available(ctx context.Context, roomID string, stay domain.DateRange) (bool, error) {
	room, err := a.rooms.FindByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !room.Status.Bookable() {
		return false, nil
	}
	conflict, err := a.HasConflict(ctx, roomID, stay, "")
	if err != nil {
		return false, err
	}
	return !conflict, nil
}
