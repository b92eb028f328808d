package domain

import (
	"fmt"
	"time"
)

// RoomStatus describes the physical state of a room today.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// ParseRoomStatus validates a wire value.
func ParseRoomStatus(s string) (RoomStatus, error) {
	switch st := RoomStatus(s); st {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfOrder:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown room status %q", ErrInvalidInput, s)
}

// Bookable reports whether new reservations may be taken for a room in this
// status. Date availability is a separate question.
func (s RoomStatus) Bookable() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning:
		return true
	}
	return false
}

// Room is a sellable unit.
type Room struct {
	ID        string     `json:"id"`
	Number    string     `json:"number"`
	Type      string     `json:"type"`
	Capacity  int        `json:"capacity"`
	Status    RoomStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
