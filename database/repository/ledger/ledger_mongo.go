package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/larrybwosi/realstate-sub001/database"
	"github.com/larrybwosi/realstate-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLedgerRepo implements LedgerRepository using MongoDB.
type MongoLedgerRepo struct {
	bookingColl *mongo.Collection
	paymentColl *mongo.Collection
}

// NewMongoLedgerRepo constructs a new instance of MongoLedgerRepo.
func NewMongoLedgerRepo() LedgerRepository {
	db := database.MongoClient.Database("realstate")
	repo := &MongoLedgerRepo{
		bookingColl: db.Collection("bookings"),
		paymentColl: db.Collection("payments"),
	}
	repo.ensureIndexes()
	return repo
}

// CreateBooking persists a new booking record.
func (repo *MongoLedgerRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// GetBookingByID retrieves a booking document by ID.
func (repo *MongoLedgerRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	filter := bson.M{"id": bookingID}
	if err := repo.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", bookingID, err)
	}
	return &booking, nil
}

// GetPaymentByCheckoutID retrieves one payment attempt by its checkout id.
func (repo *MongoLedgerRepo) GetPaymentByCheckoutID(ctx context.Context, checkoutID string) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payment models.Payment
	filter := bson.M{"checkout_id": checkoutID}
	if err := repo.paymentColl.FindOne(ctx, filter).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching payment with checkout id %s: %w", checkoutID, err)
	}
	return &payment, nil
}

// CreatePendingPayment inserts the pending payment row and stamps the owning
// booking with the checkout id if this is the booking's first attempt. The
// row is written only after the gateway has accepted the push, so there are
// never orphan rows for pushes the gateway did not receive.
func (repo *MongoLedgerRepo) CreatePendingPayment(ctx context.Context, payment *models.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.paymentColl.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to insert pending payment: %w", err)
	}

	filter := bson.M{
		"id": payment.BookingID,
		"$or": bson.A{
			bson.M{"checkout_id": bson.M{"$exists": false}},
			bson.M{"checkout_id": ""},
		},
	}
	update := bson.M{"$set": bson.M{
		"checkout_id": payment.CheckoutID,
		"updated_at":  payment.CreatedAt,
	}}
	if _, err := repo.bookingColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to assign checkout id to booking %s: %w", payment.BookingID, err)
	}
	return nil
}
