package ports

import (
	"context"

	"github.com/hotelcore/reservations/internal/core/domain"
)

// InvoiceGenerator is the billing collaborator notified after checkout.
type InvoiceGenerator interface {
	Generate(ctx context.Context, r *domain.Reservation) error
}

// CheckoutNotifier hands a checked-out reservation to asynchronous
// post-processing. Implementations must not block the caller.
type CheckoutNotifier interface {
	NotifyCheckout(r *domain.Reservation)
}
