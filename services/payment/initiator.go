package payment

import (
	"context"
	"fmt"

	"github.com/larrybwosi/realstate-sub001/models"

	"go.uber.org/zap"
)

// Initiate validates the payer's number, pushes the payment request to the
// gateway and, only once the gateway has accepted it, persists the pending
// payment attempt. A gateway failure leaves no local row: the caller may
// retry, which produces a fresh attempt with a fresh checkout id.
func (s *DefaultPaymentService) Initiate(ctx context.Context, bookingID string, amount float64, phoneNumber string) (string, error) {
	if bookingID == "" {
		return "", &ValidationError{Field: "bookingId", Reason: "empty"}
	}
	if amount <= 0 {
		return "", &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	phone, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return "", err
	}

	booking, err := s.Repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("booking lookup failed: %w", err)
	}
	if booking == nil {
		return "", &ValidationError{Field: "bookingId", Reason: "unknown booking " + bookingID}
	}

	resp, err := s.Gateway.STKPush(ctx, amount, phone, bookingID, "Rent payment")
	if err != nil {
		return "", err
	}

	now := s.Now()
	pmt := &models.Payment{
		CheckoutID: resp.CheckoutRequestID,
		BookingID:  bookingID,
		Status:     models.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.CreatePendingPayment(ctx, pmt); err != nil {
		// The gateway already accepted the push; without the local row the
		// confirmation cannot be applied. Surface loudly for the operator.
		s.Logger.Error("pending payment persist failed after gateway accept",
			zap.String("checkoutId", resp.CheckoutRequestID),
			zap.String("bookingId", bookingID),
			zap.Error(err))
		return "", fmt.Errorf("failed to persist pending payment for checkout %s: %w", resp.CheckoutRequestID, err)
	}

	s.Logger.Info("payment initiated",
		zap.String("checkoutId", resp.CheckoutRequestID),
		zap.String("bookingId", bookingID),
		zap.Float64("amount", amount),
		zap.String("phoneNumber", phone))
	return resp.CheckoutRequestID, nil
}
