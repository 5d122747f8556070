package service

import "errors"

// Typed service errors. Handlers translate these into HTTP status codes:
// InvalidAmount/InvalidState/InvalidSignature map to 400, OrderMismatch to
// 409, Internal to 500. Not-found and conflict cases reuse the repository
// sentinels so the taxonomy stays in one place per layer.
var (
	// ErrInvalidAmount rejects non-positive payment amounts before any
	// gateway call is made.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidState is returned when an operation is not legal for the
	// entity's current status, e.g. paying for an already-decided booking
	// or completing a FAILED payment.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidSignature is returned when the callback signature does not
	// match. Raising it also moves the payment to FAILED permanently.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrOrderMismatch is returned when a completion callback carries a
	// different order id than the one stored at creation time, guarding
	// against cross-wired callbacks.
	ErrOrderMismatch = errors.New("order id mismatch")

	// ErrNotifyFailed wraps a station notification failure. The payment is
	// already created when this is raised; callers report the failure but
	// must not treat the payment as rolled back.
	ErrNotifyFailed = errors.New("station notification failed")

	// ErrInternal is returned when the completion transaction fails after
	// the signature already verified: money has been captured externally
	// and the database does not reflect it. Always logged for manual
	// reconciliation, never retried automatically.
	ErrInternal = errors.New("internal error")
)
