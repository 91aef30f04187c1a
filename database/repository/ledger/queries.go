package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/larrybwosi/realstate-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOverduePending returns pending payments created before the cutoff that
// are still eligible for reconciliation (not flagged, attempts below the cap).
func (repo *MongoLedgerRepo) FindOverduePending(ctx context.Context, cutoff time.Time, maxAttempts int) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":             models.StatusPending,
		"created_at":         bson.M{"$lt": cutoff},
		"flagged_for_review": false,
		"reconcile_count":    bson.M{"$lt": maxAttempts},
	}
	cursor, err := repo.paymentColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("overdue payment query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode overdue payments: %w", err)
	}
	return payments, nil
}

// IncrementReconcileCount bumps the sweeper attempt counter for one payment.
func (repo *MongoLedgerRepo) IncrementReconcileCount(ctx context.Context, checkoutID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"reconcile_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	if _, err := repo.paymentColl.UpdateOne(ctx, bson.M{"checkout_id": checkoutID}, update); err != nil {
		return fmt.Errorf("failed to increment reconcile count for %s: %w", checkoutID, err)
	}
	return nil
}

// FlagForReview marks a payment whose gateway status never resolved. The row
// keeps its PENDING status: an unresolved external transaction is never
// auto-failed, since money may still be captured later.
func (repo *MongoLedgerRepo) FlagForReview(ctx context.Context, checkoutID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"flagged_for_review": true,
		"updated_at":         time.Now(),
	}}
	if _, err := repo.paymentColl.UpdateOne(ctx, bson.M{"checkout_id": checkoutID}, update); err != nil {
		return fmt.Errorf("failed to flag payment %s for review: %w", checkoutID, err)
	}
	return nil
}

// ListFlagged returns payments awaiting manual review, oldest first.
func (repo *MongoLedgerRepo) ListFlagged(ctx context.Context) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := repo.paymentColl.Find(ctx,
		bson.M{"flagged_for_review": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("flagged payment query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode flagged payments: %w", err)
	}
	return payments, nil
}
