package models

import "time"

// Payment represents one attempt to settle a booking. A booking may accumulate
// several attempts over its recurring lifetime, each with its own checkout id.
type Payment struct {
	CheckoutID       string    `bson:"checkout_id" json:"checkout_id"` // Gateway-issued CheckoutRequestID; unique per attempt
	BookingID        string    `bson:"booking_id" json:"booking_id"`
	Status           string    `bson:"status" json:"status"` // Mirrors the booking's status once terminal
	Amount           float64   `bson:"amount,omitempty" json:"amount,omitempty"`
	TransactionID    string    `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	ReceiptNumber    string    `bson:"receipt_number,omitempty" json:"receipt_number,omitempty"`
	PhoneNumber      string    `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	ReconcileCount   int       `bson:"reconcile_count" json:"reconcile_count"`         // Sweeper attempts so far
	FlaggedForReview bool      `bson:"flagged_for_review" json:"flagged_for_review"`   // Set when the sweeper gives up; never auto-failed
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// Terminal reports whether the payment has left the pending state.
func (p *Payment) Terminal() bool {
	return p.Status == StatusConfirmed || p.Status == StatusFailed
}

// PaymentOutcome is the terminal result the ledger applies to a
// Booking+Payment pair. It is produced from either a gateway callback or a
// sweeper status query.
type PaymentOutcome struct {
	Success       bool
	ResultCode    string
	ResultDesc    string
	Amount        float64
	ReceiptNumber string
	TransactionID string
	PhoneNumber   string
	ConfirmedAt   time.Time
}
