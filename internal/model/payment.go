package model

import "time"

// Payment statuses. A payment moves PENDING -> COMPLETED or
// PENDING -> FAILED and never reverses; FAILED is terminal and cannot be
// resurrected by a later correct callback.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Payment is the monetary transaction record tied one-to-one to a booking.
// Amounts are stored in paise (minor currency units) as integers; the API
// surface speaks rupees and converts at the boundary. The gateway order id
// is recorded at creation, the payment reference id and signature when the
// verified callback completes the payment.
//
// Fields:
//
//	ID           – primary key identifier.
//	BookingID    – booking being paid for (unique).
//	UserID       – advertiser who pays.
//	AmountPaise  – amount in paise.
//	Status       – PENDING, COMPLETED or FAILED.
//	OrderID      – gateway order id (nullable until order creation).
//	PaymentRefID – gateway payment id (nullable until completion).
//	Signature    – verification signature recorded on completion.
//	TxnTag       – client-supplied transaction tag.
//	CreatedAt    – creation timestamp.
//	UpdatedAt    – last update timestamp.
type Payment struct {
	ID           uint64    // payments.id
	BookingID    uint64    // payments.booking_id
	UserID       uint64    // payments.user_id
	AmountPaise  uint64    // payments.amount_paise
	Status       string    // payments.status
	OrderID      *string   // payments.order_id (nullable)
	PaymentRefID *string   // payments.payment_ref_id (nullable)
	Signature    *string   // payments.signature (nullable)
	TxnTag       string    // payments.txn_tag
	CreatedAt    time.Time // payments.created_at
	UpdatedAt    time.Time // payments.updated_at
}
