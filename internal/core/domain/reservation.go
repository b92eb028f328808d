package domain

import (
	"fmt"
	"time"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
	StatusNoShow     ReservationStatus = "no_show"
)

// AllStatuses lists every reservation status.
var AllStatuses = []ReservationStatus{
	StatusPending, StatusConfirmed, StatusCheckedIn,
	StatusCheckedOut, StatusCancelled, StatusNoShow,
}

// ParseReservationStatus validates a wire value.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown reservation status %q", ErrInvalidInput, s)
}

// Blocking reports whether a reservation in this status occupies its room
// for its dates.
func (s ReservationStatus) Blocking() bool {
	return s == StatusConfirmed || s == StatusCheckedIn
}

// BlockingStatuses are the statuses that take part in conflict detection.
var BlockingStatuses = []ReservationStatus{StatusConfirmed, StatusCheckedIn}

// Terminal reports whether no transition leaves s.
func (s ReservationStatus) Terminal() bool {
	for _, t := range transitions {
		for _, from := range t.from {
			if from == s {
				return false
			}
		}
	}
	return true
}

// Transition names a lifecycle operation.
type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionCancel   Transition = "cancel"
	TransitionCheckIn  Transition = "check_in"
	TransitionCheckOut Transition = "check_out"
	TransitionNoShow   Transition = "no_show"
)

type transitionRule struct {
	from []ReservationStatus
	to   ReservationStatus
}

// transitions is the complete lifecycle. Anything not listed is illegal.
var transitions = map[Transition]transitionRule{
	TransitionConfirm:  {from: []ReservationStatus{StatusPending}, to: StatusConfirmed},
	TransitionCancel:   {from: []ReservationStatus{StatusPending, StatusConfirmed}, to: StatusCancelled},
	TransitionCheckIn:  {from: []ReservationStatus{StatusConfirmed}, to: StatusCheckedIn},
	TransitionCheckOut: {from: []ReservationStatus{StatusCheckedIn}, to: StatusCheckedOut},
	TransitionNoShow:   {from: []ReservationStatus{StatusConfirmed}, to: StatusNoShow},
}

// Transitions lists every defined operation.
func Transitions() []Transition {
	return []Transition{TransitionConfirm, TransitionCancel, TransitionCheckIn, TransitionCheckOut, TransitionNoShow}
}

// Apply returns the status reached by applying t to s, or
// ErrInvalidTransition when s is not a legal source for t.
func (s ReservationStatus) Apply(t Transition) (ReservationStatus, error) {
	rule, ok := transitions[t]
	if !ok {
		return "", fmt.Errorf("%w: unknown operation %q", ErrInvalidTransition, t)
	}
	for _, from := range rule.from {
		if from == s {
			return rule.to, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s a %s reservation", ErrInvalidTransition, t, s)
}

// CanTransitionTo reports whether some operation moves s to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, t := range Transitions() {
		if to, err := s.Apply(t); err == nil && to == next {
			return true
		}
	}
	return false
}

// Reservation is a guest's claim on a room for a date range.
type Reservation struct {
	ID           string            `json:"id"`
	GuestID      string            `json:"guest_id"`
	RoomID       string            `json:"room_id"`
	Stay         DateRange         `json:"-"`
	Status       ReservationStatus `json:"status"`
	PartySize    int               `json:"party_size"`
	Notes        string            `json:"notes,omitempty"`
	CancelReason string            `json:"cancel_reason,omitempty"`
	CreatedBy    string            `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Blocks reports whether r occupies roomID on any night of stay.
func (r *Reservation) Blocks(roomID string, stay DateRange) bool {
	return r.RoomID == roomID && r.Status.Blocking() && r.Stay.Overlaps(stay)
}
