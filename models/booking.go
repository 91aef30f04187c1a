package models

import "time"

// Payment lifecycle statuses shared by Booking and Payment. Transitions are
// monotonic: PENDING may move to CONFIRMED or FAILED exactly once and is never
// reversed.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusFailed    = "FAILED"
)

// Booking represents a tenant's reservation or rent commitment.
type Booking struct {
	ID              string     `bson:"id" json:"id"`                                                     // Unique booking identifier (UUID)
	TenantID        string     `bson:"tenant_id" json:"tenant_id"`                                       // Tenant who made the booking
	PropertyID      string     `bson:"property_id" json:"property_id"`                                   // Property being rented
	CheckoutID      string     `bson:"checkout_id,omitempty" json:"checkout_id,omitempty"`               // Gateway correlation id; empty before a push is initiated
	Status          string     `bson:"status" json:"status"`                                             // PENDING, CONFIRMED or FAILED
	Amount          float64    `bson:"amount" json:"amount"`                                             // Rent amount due
	PhoneNumber     string     `bson:"phone_number" json:"phone_number"`                                 // Payer number in canonical 254... form
	IsRecurring     bool       `bson:"is_recurring" json:"is_recurring"`                                 // Monthly rent vs one-off booking
	NextPaymentDate *time.Time `bson:"next_payment_date,omitempty" json:"next_payment_date,omitempty"`   // Set once a recurring booking confirms; advances one month per confirmation
	ReceiptNumber   string     `bson:"receipt_number,omitempty" json:"receipt_number,omitempty"`         // Gateway settlement reference, CONFIRMED only
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
}

// Terminal reports whether the booking has left the pending state.
func (b *Booking) Terminal() bool {
	return b.Status == StatusConfirmed || b.Status == StatusFailed
}
