package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/radio-slot-booking/internal/model"
)

// PaymentRepo provides operations for payments. The completion update is
// deliberately a compare-and-swap scoped to status='PENDING': concurrent
// duplicate callbacks may both load the payment, but only one of them can
// win the swap inside its transaction. That update is the linearization
// point of the whole payment flow.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DB exposes the underlying handle so the payment service can open the
// completion transaction spanning payments and slots.
func (r *PaymentRepo) DB() *sql.DB { return r.db }

// Create inserts a PENDING payment carrying the gateway order id and
// populates the generated ID. ErrPaymentExists is returned when the
// booking already has a payment (booking_id unique key).
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, user_id, amount_paise, status, order_id, txn_tag)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.BookingID, p.UserID, p.AmountPaise, model.PaymentPending, p.OrderID, p.TxnTag)
	if err != nil {
		if isDuplicate(err) {
			return ErrPaymentExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.Status = model.PaymentPending
	return nil
}

// PaymentWithBooking is a payment joined with the booking and slot it pays
// for. The completion flow needs the slot reference to flip its status.
type PaymentWithBooking struct {
	model.Payment
	BookingStatus string
	SlotID        uint64
}

// GetWithBooking loads a payment by id joined with its booking. It returns
// ErrPaymentNotFound when the payment does not exist. A payment whose
// booking row is gone indicates corrupted internal state; the join makes
// that surface as ErrPaymentNotFound too, which callers treat as fatal
// rather than a client error.
func (r *PaymentRepo) GetWithBooking(ctx context.Context, id uint64) (*PaymentWithBooking, error) {
	const q = `SELECT p.id, p.booking_id, p.user_id, p.amount_paise, p.status,
	                  p.order_id, p.payment_ref_id, p.signature, p.txn_tag, p.created_at, p.updated_at,
	                  b.status, b.slot_id
	           FROM payments p
	           JOIN bookings b ON b.id = p.booking_id
	           WHERE p.id = ?`
	var pw PaymentWithBooking
	var orderID, refID, sig sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&pw.ID, &pw.BookingID, &pw.UserID, &pw.AmountPaise, &pw.Status,
		&orderID, &refID, &sig, &pw.TxnTag, &pw.CreatedAt, &pw.UpdatedAt,
		&pw.BookingStatus, &pw.SlotID,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		v := orderID.String
		pw.OrderID = &v
	}
	if refID.Valid {
		v := refID.String
		pw.PaymentRefID = &v
	}
	if sig.Valid {
		v := sig.String
		pw.Signature = &v
	}
	return &pw, nil
}

// CompleteTx compare-and-swaps the payment to COMPLETED within the
// caller's transaction, recording the gateway payment id and signature.
// The WHERE clause requires status='PENDING'; it returns false when the
// swap did not apply because another caller already decided the payment.
func (r *PaymentRepo) CompleteTx(ctx context.Context, tx *sql.Tx, paymentID uint64, paymentRefID, signature string) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE payments SET status = ?, payment_ref_id = ?, signature = ? WHERE id = ? AND status = ?`,
		model.PaymentCompleted, paymentRefID, signature, paymentID, model.PaymentPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkFailed moves a PENDING payment to FAILED. The transition is
// permanent; a later correct signature cannot recover the payment.
func (r *PaymentRepo) MarkFailed(ctx context.Context, paymentID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ? AND status = ?`,
		model.PaymentFailed, paymentID, model.PaymentPending)
	return err
}

// PaymentDetail is the read projection returned to advertisers. The amount
// is reported back in rupees.
type PaymentDetail struct {
	ID           uint64    `json:"id"`
	BookingID    uint64    `json:"booking_id"`
	AmountRupees float64   `json:"amount_rupees"`
	Status       string    `json:"status"`
	OrderID      *string   `json:"order_id,omitempty"`
	PaymentRefID *string   `json:"payment_ref_id,omitempty"`
	TxnTag       string    `json:"txn_tag"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListByUser returns a user's payments ordered by payment date descending
// (newest first).
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]PaymentDetail, error) {
	const q = `SELECT id, booking_id, amount_paise, status, order_id, payment_ref_id, txn_tag, created_at
	           FROM payments WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PaymentDetail, 0)
	for rows.Next() {
		var d PaymentDetail
		var paise uint64
		var orderID, refID sql.NullString
		if err := rows.Scan(&d.ID, &d.BookingID, &paise, &d.Status, &orderID, &refID, &d.TxnTag, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.AmountRupees = float64(paise) / 100
		if orderID.Valid {
			v := orderID.String
			d.OrderID = &v
		}
		if refID.Valid {
			v := refID.String
			d.PaymentRefID = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
