package payment

import (
	"context"
	"errors"
	"time"

	ledgerRepo "github.com/larrybwosi/realstate-sub001/database/repository/ledger"
	"github.com/larrybwosi/realstate-sub001/models"

	"go.uber.org/zap"
)

// HandleCallback applies the gateway's asynchronous result notification.
// Callbacks are delivered at least once, possibly concurrently; replays for a
// pair that already went terminal are absorbed as no-ops. A nil return means
// the callback may be acknowledged and will not be redelivered.
func (s *DefaultPaymentService) HandleCallback(ctx context.Context, env *models.CallbackEnvelope) error {
	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return &ValidationError{Field: "CheckoutRequestID", Reason: "missing from callback"}
	}

	outcome, err := s.outcomeFromResult(cb.ResultCode, cb.ResultDesc, cb.CallbackMetadata)
	if err != nil {
		return err
	}

	pmt, err := s.lookupWithRetry(ctx, cb.CheckoutRequestID)
	if err != nil {
		return err
	}
	if pmt.Terminal() {
		s.Logger.Info("callback replay for terminal payment, ignoring",
			zap.String("checkoutId", cb.CheckoutRequestID),
			zap.String("status", pmt.Status))
		return nil
	}

	return s.apply(ctx, cb.CheckoutRequestID, outcome)
}

// outcomeFromResult builds the terminal outcome from a result code and its
// metadata. Shared by the callback receiver and the sweeper, whose status
// query responses carry the same shape. Metadata is an unordered name/value
// list; extraction is by name, never by position.
func (s *DefaultPaymentService) outcomeFromResult(code models.ResultCode, desc string, meta *models.CallbackMetadata) (models.PaymentOutcome, error) {
	outcome := models.PaymentOutcome{
		Success:     code.Success(),
		ResultCode:  string(code),
		ResultDesc:  desc,
		ConfirmedAt: s.Now(),
	}
	if !outcome.Success {
		return outcome, nil
	}

	receipt, ok := meta.LookupString(models.MetaReceiptNumber)
	if !ok || receipt == "" {
		return outcome, &ValidationError{Field: models.MetaReceiptNumber, Reason: "missing from success metadata"}
	}
	amount, ok := meta.LookupAmount(models.MetaAmount)
	if !ok {
		return outcome, &ValidationError{Field: models.MetaAmount, Reason: "missing or non-numeric"}
	}
	phone, _ := meta.LookupString(models.MetaPhoneNumber)

	outcome.ReceiptNumber = receipt
	outcome.TransactionID = receipt
	outcome.Amount = amount
	outcome.PhoneNumber = phone
	return outcome, nil
}

// lookupWithRetry finds the payment row for a checkout id, retrying a small
// bounded number of times. The row is written only after the gateway accepts
// the push, so a fast gateway can deliver the callback before the local
// commit lands; the retry absorbs that window instead of dropping a
// legitimate confirmation.
func (s *DefaultPaymentService) lookupWithRetry(ctx context.Context, checkoutID string) (*models.Payment, error) {
	var pmt *models.Payment
	var err error
	for attempt := 0; attempt <= s.LookupRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.LookupBackoff):
			}
		}
		pmt, err = s.Repo.GetPaymentByCheckoutID(ctx, checkoutID)
		if err != nil {
			return nil, err
		}
		if pmt != nil {
			return pmt, nil
		}
	}
	return nil, &NotFoundError{CheckoutID: checkoutID}
}

// apply drives the ledger transition and the post-commit notification. The
// ledger's conditional write decides the single winner between concurrent
// deliveries; losers observe a conflict and report success-as-noop.
func (s *DefaultPaymentService) apply(ctx context.Context, checkoutID string, outcome models.PaymentOutcome) error {
	if err := s.Repo.ApplyOutcome(ctx, checkoutID, outcome); err != nil {
		if errors.Is(err, ledgerRepo.ErrNotPending) {
			conflict := &ConflictError{CheckoutID: checkoutID}
			s.Logger.Info("terminal transition already applied", zap.String("checkoutId", checkoutID), zap.String("detail", conflict.Error()))
			return nil
		}
		return err
	}

	s.Logger.Info("payment outcome committed",
		zap.String("checkoutId", checkoutID),
		zap.Bool("success", outcome.Success),
		zap.String("resultCode", outcome.ResultCode),
		zap.String("receiptNumber", outcome.ReceiptNumber))

	if s.Notifier != nil {
		pmt, err := s.Repo.GetPaymentByCheckoutID(ctx, checkoutID)
		if err != nil || pmt == nil {
			return nil
		}
		booking, err := s.Repo.GetBookingByID(ctx, pmt.BookingID)
		if err != nil || booking == nil {
			return nil
		}
		if err := s.Notifier.NotifyPaymentOutcome(ctx, booking, outcome); err != nil {
			// Never fail a committed transition over a push notification.
			s.Logger.Warn("payment outcome notification failed",
				zap.String("checkoutId", checkoutID), zap.Error(err))
		}
	}
	return nil
}
