package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/pkg/clock"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var tracer = otel.Tracer("github.com/hotelcore/reservations/internal/core/service")

// ReservationService owns the reservation lifecycle. Every write that depends
// on a conflict check runs while holding the room's lock.
type ReservationService struct {
	reservations ports.ReservationRepository
	rooms        ports.RoomRepository
	guests       ports.GuestRepository
	availability *Availability
	locker       ports.RoomLocker
	checkout     ports.CheckoutNotifier
	clock        clock.Clock
	logger       zerolog.Logger
}

func NewReservationService(
	reservations ports.ReservationRepository,
	rooms ports.RoomRepository,
	guests ports.GuestRepository,
	locker ports.RoomLocker,
	checkout ports.CheckoutNotifier,
	clk clock.Clock,
	logger zerolog.Logger,
) *ReservationService {
	if clk == nil {
		clk = clock.Real()
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		guests:       guests,
		availability: NewAvailability(reservations, rooms),
		locker:       locker,
		checkout:     checkout,
		clock:        clk,
		logger:       logger,
	}
}

// Availability exposes the engine used by this service.
func (s *ReservationService) Availability() *Availability { return s.availability }

// Create books a room as a pending reservation.
func (s *ReservationService) Create(ctx context.Context, input ports.CreateReservationInput) (res *domain.Reservation, err error) {
	ctx, span := startSpan(ctx, "reservation.create", attribute.String("room.id", input.RoomID))
	defer func() { endSpan(span, err) }()

	if input.GuestID == "" || input.RoomID == "" {
		return nil, fmt.Errorf("%w: guest_id and room_id are required", domain.ErrInvalidInput)
	}
	if input.PartySize < 1 {
		return nil, fmt.Errorf("%w: party_size must be at least 1", domain.ErrInvalidInput)
	}

	room, err := s.bookableRoom(ctx, input.RoomID, input.PartySize)
	if err != nil {
		return nil, err
	}
	if _, err := s.guests.FindByID(ctx, input.GuestID); err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	conflict, err := s.availability.HasConflict(ctx, room.ID, input.Stay, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domain.ErrBookingConflict
	}

	now := s.clock.Now()
	res = &domain.Reservation{
		ID:        uuid.NewString(),
		GuestID:   input.GuestID,
		RoomID:    room.ID,
		Stay:      input.Stay,
		Status:    domain.StatusPending,
		PartySize: input.PartySize,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedBy: input.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("reservation_id", res.ID).
		Str("room_id", res.RoomID).
		Str("stay", res.Stay.String()).
		Msg("reservation created")
	return res, nil
}

// bookableRoom loads a room and checks it can take a party of partySize.
func (s *ReservationService) bookableRoom(ctx context.Context, roomID string, partySize int) (*domain.Room, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Status.Bookable() {
		return nil, fmt.Errorf("%w: room %s is %s", domain.ErrRoomUnavailable, room.Number, room.Status)
	}
	if room.Capacity > 0 && partySize > room.Capacity {
		return nil, fmt.Errorf("%w: room %s holds %d guests", domain.ErrRoomUnavailable, room.Number, room.Capacity)
	}
	return room, nil
}

func (s *ReservationService) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.reservations.FindByID(ctx, id)
}

func (s *ReservationService) List(ctx context.Context, filter ports.ListReservationsFilter) (*ports.ReservationPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	// A guest with no guest records owns nothing.
	if filter.GuestIDs != nil && len(filter.GuestIDs) == 0 {
		return &ports.ReservationPage{Items: []*domain.Reservation{}, Page: filter.Page, Limit: filter.Limit}, nil
	}
	items, total, err := s.reservations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ReservationPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Update changes dates, room, party size or notes. Moving a reservation is
// re-checked against the target room while holding its lock.
func (s *ReservationService) Update(ctx context.Context, id string, input ports.UpdateReservationInput) (res *domain.Reservation, err error) {
	ctx, span := startSpan(ctx, "reservation.update", attribute.String("reservation.id", id))
	defer func() { endSpan(span, err) }()

	current, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot update a %s reservation", domain.ErrInvalidTransition, current.Status)
	}

	next := *current
	if input.Stay != nil {
		next.Stay = *input.Stay
	}
	if input.RoomID != nil && *input.RoomID != "" {
		next.RoomID = *input.RoomID
	}
	if input.PartySize != nil {
		if *input.PartySize < 1 {
			return nil, fmt.Errorf("%w: party_size must be at least 1", domain.ErrInvalidInput)
		}
		next.PartySize = *input.PartySize
	}
	if input.Notes != nil {
		next.Notes = strings.TrimSpace(*input.Notes)
	}

	moved := next.RoomID != current.RoomID || !next.Stay.Equal(current.Stay)
	if next.RoomID != current.RoomID || next.PartySize != current.PartySize {
		if _, err := s.bookableRoom(ctx, next.RoomID, next.PartySize); err != nil {
			return nil, err
		}
	}

	if moved {
		release, err := s.locker.Lock(ctx, next.RoomID)
		if err != nil {
			return nil, err
		}
		defer release()

		conflict, err := s.availability.HasConflict(ctx, next.RoomID, next.Stay, current.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, domain.ErrBookingConflict
		}
	}

	// The write only lands if nobody moved or re-statused the reservation
	// since it was read, so a stale copy never overwrites a newer placement.
	next.UpdatedAt = s.clock.Now()
	if err := s.reservations.UpdateDetails(ctx, &next, current.Status, ports.PlacementOf(current)); err != nil {
		return nil, err
	}
	s.logger.Info().Str("reservation_id", id).Bool("moved", moved).Msg("reservation updated")
	return &next, nil
}

func (s *ReservationService) Confirm(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.TransitionConfirm, "")
}

// Cancel requires a non-empty reason, which is stored with the reservation.
func (s *ReservationService) Cancel(ctx context.Context, id, reason string) (*domain.Reservation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", domain.ErrInvalidInput)
	}
	return s.transition(ctx, id, domain.TransitionCancel, reason)
}

func (s *ReservationService) CheckIn(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.transition(ctx, id, domain.TransitionCheckIn, "")
	if err != nil {
		return nil, err
	}
	s.setRoomStatus(ctx, res.RoomID, domain.RoomOccupied)
	return res, nil
}

// CheckOut completes the stay and hands the reservation to invoicing.
// Invoicing runs asynchronously and never undoes the checkout.
func (s *ReservationService) CheckOut(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := s.transition(ctx, id, domain.TransitionCheckOut, "")
	if err != nil {
		return nil, err
	}
	s.setRoomStatus(ctx, res.RoomID, domain.RoomCleaning)
	if s.checkout != nil {
		s.checkout.NotifyCheckout(res)
	}
	return res, nil
}

func (s *ReservationService) MarkNoShow(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.TransitionNoShow, "")
}

func (s *ReservationService) transition(ctx context.Context, id string, t domain.Transition, reason string) (res *domain.Reservation, err error) {
	ctx, span := startSpan(ctx, "reservation."+string(t), attribute.String("reservation.id", id))
	defer func() { endSpan(span, err) }()

	res, err = s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	to, err := res.Status.Apply(t)
	if err != nil {
		return nil, err
	}

	if to.Blocking() && !res.Status.Blocking() {
		release, err := s.locker.Lock(ctx, res.RoomID)
		if err != nil {
			return nil, err
		}
		defer release()

		// Re-read under the lock: a concurrent update may have moved it.
		latest, err := s.reservations.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if latest.RoomID != res.RoomID || latest.Status != res.Status {
			return nil, domain.ErrStaleStatus
		}
		res = latest

		conflict, err := s.availability.HasConflict(ctx, res.RoomID, res.Stay, res.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, domain.ErrBookingConflict
		}
	}

	change := ports.StatusChange{
		From:         res.Status,
		To:           to,
		Where:        ports.PlacementOf(res),
		CancelReason: reason,
		At:           s.clock.Now(),
	}
	if err := s.reservations.UpdateStatus(ctx, res.ID, change); err != nil {
		return nil, err
	}

	res.Status = to
	res.UpdatedAt = change.At
	if reason != "" {
		res.CancelReason = reason
	}
	s.logger.Info().
		Str("reservation_id", res.ID).
		Str("from", string(change.From)).
		Str("to", string(to)).
		Msg("reservation status changed")
	return res, nil
}

// Room housekeeping status follows the stay but is advisory: a failure is
// logged and the reservation change stands.
func (s *ReservationService) setRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus) {
	if err := s.rooms.UpdateStatus(ctx, roomID, status); err != nil {
		s.logger.Error().Err(err).Str("room_id", roomID).Str("status", string(status)).Msg("update room status")
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Kind(err))
	}
	span.End()
}
