package service

import (
	"context"
	"fmt"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// Authorizer decides whether an authenticated caller may act on a resource.
// Role checks are pure; ownership checks load the resource they protect.
type Authorizer struct {
	reservations ports.ReservationRepository
	guests       ports.GuestRepository
}

func NewAuthorizer(reservations ports.ReservationRepository, guests ports.GuestRepository) *Authorizer {
	return &Authorizer{reservations: reservations, guests: guests}
}

func (a *Authorizer) RequireRole(id *domain.Identity, allowed domain.RoleSet) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}
	if !allowed.Has(id.Role) {
		return fmt.Errorf("%w: role %s not in %s", domain.ErrForbidden, id.Role, allowed)
	}
	return nil
}

func (a *Authorizer) RequireOwnershipOrStaff(id *domain.Identity, ownerID string) error {
	if id == nil {
		return domain.ErrUnauthenticated
	}
	if id.IsStaff() || (ownerID != "" && id.ID == ownerID) {
		return nil
	}
	return domain.ErrForbidden
}

// RequireReservationAccess lets staff through and lets a guest through only
// when the reservation's guest record carries the caller's email. The loaded
// reservation is returned so handlers do not fetch it twice.
func (a *Authorizer) RequireReservationAccess(ctx context.Context, id *domain.Identity, reservationID string) (*domain.Reservation, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	res, err := a.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if id.IsStaff() {
		return res, nil
	}
	if _, err := a.RequireGuestAccess(ctx, id, res.GuestID); err != nil {
		return nil, err
	}
	return res, nil
}

// RequireGuestAccess applies the same email rule to a guest record.
func (a *Authorizer) RequireGuestAccess(ctx context.Context, id *domain.Identity, guestID string) (*domain.Guest, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}
	guest, err := a.guests.FindByID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if id.IsStaff() || domain.SameContact(guest.Email, id.Email) {
		return guest, nil
	}
	return nil, domain.ErrForbidden
}
