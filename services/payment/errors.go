package payment

import "fmt"

// The engine's failure modes form a closed set. Callers match these with
// errors.As instead of string inspection, so a new failure kind cannot fall
// through an if/else chain unnoticed.

// AuthError signals a failed credential exchange with the gateway. It is
// fatal to the calling operation and never retried automatically: bad
// credentials are an operator problem, not a transient one.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway auth failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("gateway auth failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// GatewayError signals a network failure or non-2xx response from the gateway
// on push, status query or token transport. The transaction's true status is
// unknown; callers may retry, and unresolved pushes fall to the sweeper.
type GatewayError struct {
	Op  string // "push", "query" or "token"
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ValidationError signals malformed input: a bad phone number on initiation
// or incomplete metadata on a callback. Retrying would not change the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError signals a callback or poll referencing a checkout id this
// system does not recognize, after the bounded lookup retry has been
// exhausted. Logged and acknowledged; never crashes the receiver.
type NotFoundError struct {
	CheckoutID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no booking/payment pair for checkout id %s", e.CheckoutID)
}

// ConflictError signals that the ledger's conditional write found the pair
// already terminal. It stays internal: callers treat it as success-as-noop.
type ConflictError struct {
	CheckoutID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("pair for checkout id %s is already terminal", e.CheckoutID)
}
