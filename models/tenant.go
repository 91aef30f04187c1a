package models

import "time"

// Tenant is the payer behind a booking. Only the fields the payment engine
// needs live here; profile management belongs to the main application.
type Tenant struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"fcm_token,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
