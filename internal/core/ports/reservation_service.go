package ports

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// CreateReservationInput carries all data needed to book a room.
type CreateReservationInput struct {
	GuestID   string
	RoomID    string
	Stay      domain.DateRange
	PartySize int
	Notes     string
	CreatedBy string
}

// UpdateReservationInput holds the optional fields of a reservation update.
// Nil fields are left untouched.
type UpdateReservationInput struct {
	Stay      *domain.DateRange
	RoomID    *string
	PartySize *int
	Notes     *string
}

// ReservationPage is a page of reservations plus the unpaged total.
type ReservationPage struct {
	Items []*domain.Reservation
	Total int64
	Page  int
	Limit int
}

type ReservationService interface {
	Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, filter ListReservationsFilter) (*ReservationPage, error)
	Update(ctx context.Context, id string, input UpdateReservationInput) (*domain.Reservation, error)

	Confirm(ctx context.Context, id string) (*domain.Reservation, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Reservation, error)
	CheckIn(ctx context.Context, id string) (*domain.Reservation, error)
	CheckOut(ctx context.Context, id string) (*domain.Reservation, error)
	MarkNoShow(ctx context.Context, id string) (*domain.Reservation, error)
}

// AvailabilityChecker answers whether a room can be booked for a stay.
type AvailabilityChecker interface {
	HasConflict(ctx context.Context, roomID string, stay domain.DateRange, excludeID string) (bool, error)
	Available(ctx context.Context, roomID string, stay domain.DateRange) (bool, error)
}
