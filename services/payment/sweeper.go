package payment

import (
	"context"
	"errors"
	"time"

	"github.com/larrybwosi/realstate-sub001/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileOverdue covers the case of a lost callback: every payment still
// pending past the threshold is checked directly against the gateway's status
// endpoint, and terminal results are applied through the same ledger path the
// callback receiver uses. Status queries run with a capped number in flight
// so a large sweep does not burst against the gateway.
func (s *DefaultPaymentService) ReconcileOverdue(ctx context.Context, threshold time.Duration) error {
	cutoff := s.Now().Add(-threshold)
	overdue, err := s.Repo.FindOverduePending(ctx, cutoff, s.MaxReconcileAttempts)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}
	s.Logger.Info("reconciliation sweep starting", zap.Int("overdue", len(overdue)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.SweepConcurrency)
	for _, pmt := range overdue {
		pmt := pmt
		g.Go(func() error {
			s.reconcileOne(gctx, pmt)
			// Individual failures are logged, never abort the sweep.
			return nil
		})
	}
	return g.Wait()
}

func (s *DefaultPaymentService) reconcileOne(ctx context.Context, pmt models.Payment) {
	resp, err := s.Gateway.STKQuery(ctx, pmt.CheckoutID)
	switch {
	case errors.Is(err, ErrStillProcessing):
		s.noteUnresolved(ctx, pmt, "still processing at gateway")
		return
	case err != nil:
		// Timeout or gateway failure: the true status is unknown. Count the
		// attempt and leave the row pending for the next sweep.
		s.Logger.Warn("status query failed",
			zap.String("checkoutId", pmt.CheckoutID), zap.Error(err))
		s.noteUnresolved(ctx, pmt, "status query failed")
		return
	}

	outcome, err := s.outcomeFromResult(resp.ResultCode, resp.ResultDesc, resp.CallbackMetadata)
	if err != nil {
		// A terminal result with unusable metadata cannot be applied; the
		// operator resolves it by hand.
		s.Logger.Error("unusable status query metadata",
			zap.String("checkoutId", pmt.CheckoutID), zap.Error(err))
		s.noteUnresolved(ctx, pmt, "unusable metadata")
		return
	}

	if err := s.apply(ctx, pmt.CheckoutID, outcome); err != nil {
		s.Logger.Error("reconciled outcome apply failed",
			zap.String("checkoutId", pmt.CheckoutID), zap.Error(err))
		return
	}
	s.Logger.Info("payment reconciled without callback",
		zap.String("checkoutId", pmt.CheckoutID),
		zap.Bool("success", outcome.Success))
}

// noteUnresolved counts a reconcile attempt that produced no terminal answer
// and flags the row for manual review once the cap is reached. Flagged rows
// stay PENDING: money may still be captured later, so they are never
// auto-failed.
func (s *DefaultPaymentService) noteUnresolved(ctx context.Context, pmt models.Payment, reason string) {
	if err := s.Repo.IncrementReconcileCount(ctx, pmt.CheckoutID); err != nil {
		s.Logger.Error("failed to record reconcile attempt",
			zap.String("checkoutId", pmt.CheckoutID), zap.Error(err))
		return
	}
	if pmt.ReconcileCount+1 >= s.MaxReconcileAttempts {
		if err := s.Repo.FlagForReview(ctx, pmt.CheckoutID); err != nil {
			s.Logger.Error("failed to flag payment for review",
				zap.String("checkoutId", pmt.CheckoutID), zap.Error(err))
			return
		}
		s.Logger.Warn("payment flagged for manual review",
			zap.String("checkoutId", pmt.CheckoutID),
			zap.Int("attempts", pmt.ReconcileCount+1),
			zap.String("reason", reason))
	}
}
