package ledgerRepo

import (
	"context"
	"errors"
	"time"

	"github.com/larrybwosi/realstate-sub001/models"
)

// ErrNotPending is returned by ApplyOutcome when the conditional write finds
// no pending pair for the checkout id: either the pair is already terminal
// (a duplicate delivery lost the race) or it never existed.
var ErrNotPending = errors.New("no pending booking/payment pair for checkout id")

// LedgerRepository is the only surface permitted to mutate booking and
// payment state. ApplyOutcome is the sole serialization point for terminal
// transitions.
type LedgerRepository interface {
	// CreateBooking persists a new booking record.
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// GetBookingByID retrieves a booking by its unique ID.
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// CreatePendingPayment persists a pending payment attempt and assigns the
	// booking's checkout id if it is not already set.
	CreatePendingPayment(ctx context.Context, payment *models.Payment) error
	// GetPaymentByCheckoutID retrieves one payment attempt.
	GetPaymentByCheckoutID(ctx context.Context, checkoutID string) (*models.Payment, error)
	// ApplyOutcome moves the pair out of PENDING, all-or-nothing. Returns
	// ErrNotPending when the pair is already terminal or unknown.
	ApplyOutcome(ctx context.Context, checkoutID string, outcome models.PaymentOutcome) error
	// FindOverduePending returns pending payments created before the cutoff
	// that have not yet exhausted their reconcile attempts or been flagged.
	FindOverduePending(ctx context.Context, cutoff time.Time, maxAttempts int) ([]models.Payment, error)
	// IncrementReconcileCount bumps the sweeper attempt counter.
	IncrementReconcileCount(ctx context.Context, checkoutID string) error
	// FlagForReview marks a payment for manual follow-up instead of failing it.
	FlagForReview(ctx context.Context, checkoutID string) error
	// ListFlagged returns payments awaiting manual review.
	ListFlagged(ctx context.Context) ([]models.Payment, error)
}
