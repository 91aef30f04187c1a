package payment

import (
	"context"
	"time"

	ledgerRepo "github.com/larrybwosi/realstate-sub001/database/repository/ledger"
	"github.com/larrybwosi/realstate-sub001/models"
	"github.com/larrybwosi/realstate-sub001/services/notification"

	"go.uber.org/zap"
)

// PaymentService is the payment lifecycle engine: it initiates pushes,
// consumes the gateway's asynchronous results and reconciles attempts whose
// callback never arrived.
type PaymentService interface {
	// Initiate starts a payment request for a booking and returns the
	// gateway-issued checkout id.
	Initiate(ctx context.Context, bookingID string, amount float64, phoneNumber string) (string, error)
	// HandleCallback validates an inbound result notification and drives the
	// terminal transition.
	HandleCallback(ctx context.Context, env *models.CallbackEnvelope) error
	// ReconcileOverdue queries the gateway for every payment still pending
	// past the threshold and applies any terminal result it reports.
	ReconcileOverdue(ctx context.Context, threshold time.Duration) error
	// PaymentStatus returns the current state of one attempt and its booking.
	PaymentStatus(ctx context.Context, checkoutID string) (*models.Payment, *models.Booking, error)
	// FlaggedPayments lists attempts awaiting manual review.
	FlaggedPayments(ctx context.Context) ([]models.Payment, error)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Repo     ledgerRepo.LedgerRepository
	Gateway  Gateway
	Notifier notification.NotificationService // optional; pushes are best-effort
	Logger   *zap.Logger

	// Sweep tuning.
	MaxReconcileAttempts int
	SweepConcurrency     int

	// Callback lookup retry, absorbing the create-after-accept race.
	LookupRetries int
	LookupBackoff time.Duration

	// Now is swappable for deterministic time-based tests.
	Now func() time.Time
}

// NewPaymentService wires a payment service with production defaults.
func NewPaymentService(repo ledgerRepo.LedgerRepository, gateway Gateway, notifier notification.NotificationService, logger *zap.Logger) *DefaultPaymentService {
	return &DefaultPaymentService{
		Repo:                 repo,
		Gateway:              gateway,
		Notifier:             notifier,
		Logger:               logger,
		MaxReconcileAttempts: 5,
		SweepConcurrency:     4,
		LookupRetries:        3,
		LookupBackoff:        200 * time.Millisecond,
		Now:                  time.Now,
	}
}

// PaymentStatus returns the current state of one attempt and its booking.
func (s *DefaultPaymentService) PaymentStatus(ctx context.Context, checkoutID string) (*models.Payment, *models.Booking, error) {
	pmt, err := s.Repo.GetPaymentByCheckoutID(ctx, checkoutID)
	if err != nil {
		return nil, nil, err
	}
	if pmt == nil {
		return nil, nil, &NotFoundError{CheckoutID: checkoutID}
	}
	booking, err := s.Repo.GetBookingByID(ctx, pmt.BookingID)
	if err != nil {
		return nil, nil, err
	}
	return pmt, booking, nil
}

// FlaggedPayments lists attempts awaiting manual review.
func (s *DefaultPaymentService) FlaggedPayments(ctx context.Context) ([]models.Payment, error) {
	return s.Repo.ListFlagged(ctx)
}
