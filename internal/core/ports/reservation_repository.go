package ports

import (
	"context"
	"time"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// ListReservationsFilter carries all query parameters for listing reservations.
type ListReservationsFilter struct {
	GuestIDs []string                 // non-nil = scoped to these guests (guest role)
	RoomID   string                   // optional
	Status   domain.ReservationStatus // optional
	From     time.Time                // optional: stay overlaps [From, To)
	To       time.Time                // optional
	Page     int                      // 1-based
	Limit    int
}

// Placement is the room and stay a write expects the stored reservation to
// still have. The zero value matches any placement.
type Placement struct {
	RoomID string
	Stay   domain.DateRange
}

func PlacementOf(r *domain.Reservation) Placement {
	return Placement{RoomID: r.RoomID, Stay: r.Stay}
}

// StatusChange describes a compare-and-set status write.
type StatusChange struct {
	From         domain.ReservationStatus
	To           domain.ReservationStatus
	Where        Placement
	CancelReason string
	At           time.Time
}

// ReservationRepository persists reservations. Writes that change status
// are conditional on the expected current status and fail with
// domain.ErrStaleStatus when another writer got there first.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)

	// FindOverlapping returns reservations on roomID whose stay overlaps the
	// given range under half-open semantics and whose status is one of
	// statuses. An empty statuses slice means any status.
	FindOverlapping(ctx context.Context, roomID string, stay domain.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)

	UpdateStatus(ctx context.Context, id string, change StatusChange) error
	// UpdateDetails rewrites room, stay, party size and notes as long as the
	// stored status and placement still equal expected and where.
	UpdateDetails(ctx context.Context, r *domain.Reservation, expected domain.ReservationStatus, where Placement) error

	List(ctx context.Context, filter ListReservationsFilter) ([]*domain.Reservation, int64, error)
}
