package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/larrybwosi/realstate-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplyOutcome moves the Booking+Payment pair for checkoutID out of PENDING
// inside a single multi-document transaction. The conditional update on the
// payment row (status must still be PENDING) is the compare-and-set that
// serializes concurrent callback and sweeper deliveries: exactly one caller
// commits, every other caller gets ErrNotPending. Contention is scoped to the
// one checkout id; unrelated checkouts never contend.
func (repo *MongoLedgerRepo) ApplyOutcome(ctx context.Context, checkoutID string, outcome models.PaymentOutcome) error {
	client := repo.paymentColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	status := models.StatusFailed
	if outcome.Success {
		status = models.StatusConfirmed
	}
	now := outcome.ConfirmedAt
	if now.IsZero() {
		now = time.Now()
	}

	txnFn := func(sc mongo.SessionContext) error {
		paymentSet := bson.M{
			"status":     status,
			"updated_at": now,
		}
		if outcome.Success {
			paymentSet["amount"] = outcome.Amount
			paymentSet["receipt_number"] = outcome.ReceiptNumber
			paymentSet["transaction_id"] = outcome.TransactionID
			paymentSet["phone_number"] = outcome.PhoneNumber
		}

		res, err := repo.paymentColl.UpdateOne(sc,
			bson.M{"checkout_id": checkoutID, "status": models.StatusPending},
			bson.M{"$set": paymentSet},
		)
		if err != nil {
			return fmt.Errorf("payment conditional update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotPending
		}

		var payment models.Payment
		if err := repo.paymentColl.FindOne(sc, bson.M{"checkout_id": checkoutID}).Decode(&payment); err != nil {
			return fmt.Errorf("payment re-read failed: %w", err)
		}

		var booking models.Booking
		if err := repo.bookingColl.FindOne(sc, bson.M{"id": payment.BookingID}).Decode(&booking); err != nil {
			// A payment without its booking means the pair would end up split;
			// abort rather than commit half a transition.
			return fmt.Errorf("booking %s missing for payment %s: %w", payment.BookingID, checkoutID, err)
		}

		bookingSet := bson.M{"updated_at": now}
		switch {
		case booking.Status == models.StatusPending:
			bookingSet["status"] = status
			if outcome.Success {
				bookingSet["receipt_number"] = outcome.ReceiptNumber
				if booking.IsRecurring {
					bookingSet["next_payment_date"] = now.AddDate(0, 1, 0)
				}
			}
		case outcome.Success:
			// Later attempt on a recurring booking that already confirmed
			// once: record the fresh receipt and push the schedule forward.
			// Status stays terminal, never reversed.
			bookingSet["receipt_number"] = outcome.ReceiptNumber
			if booking.IsRecurring {
				bookingSet["next_payment_date"] = now.AddDate(0, 1, 0)
			}
		default:
			// Failed attempt against an already-terminal booking changes
			// nothing on the booking side.
			return nil
		}

		if _, err := repo.bookingColl.UpdateOne(sc, bson.M{"id": booking.ID}, bson.M{"$set": bookingSet}); err != nil {
			return fmt.Errorf("booking update failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
