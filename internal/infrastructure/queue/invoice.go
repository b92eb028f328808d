package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// LogInvoiceGenerator records the billable stay in the log. It stands in
// for a billing system until one is integrated.
type LogInvoiceGenerator struct {
	log zerolog.Logger
}

func NewLogInvoiceGenerator(log zerolog.Logger) *LogInvoiceGenerator {
	return &LogInvoiceGenerator{log: log}
}

func (g *LogInvoiceGenerator) Generate(_ context.Context, r *domain.Reservation) error {
	g.log.Info().
		Str("reservation_id", r.ID).
		Str("guest_id", r.GuestID).
		Str("room_id", r.RoomID).
		Str("stay", r.Stay.String()).
		Int("nights", r.Stay.Nights()).
		Msg("invoice generated")
	return nil
}
