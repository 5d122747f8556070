package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/radio-slot-booking/internal/gateway"
	"github.com/iliyamo/radio-slot-booking/internal/model"
	q "github.com/iliyamo/radio-slot-booking/internal/queue"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// maxReceiptLen bounds the receipt tag sent to the gateway; the order API
// rejects longer receipts.
const maxReceiptLen = 40

// Gateway is the slice of the payment gateway client the service needs.
// *gateway.Client satisfies it; tests substitute a stub.
type Gateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (gateway.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// PaymentService owns the payment lifecycle: order creation against the
// gateway, persistence of the payment row, and the verified completion
// that atomically marks the payment COMPLETED and the slot BOOKED.
//
// There is deliberately no expiry sweep: a payment abandoned at checkout
// stays PENDING and its booking keeps the slot claimed until an operator
// intervenes.
type PaymentService struct {
	db       *sql.DB
	payments *repository.PaymentRepo
	bookings *repository.BookingRepo
	slots    *repository.SlotRepo
	stations *repository.StationRepo
	gw       Gateway
	notifier Notifier
}

// NewPaymentService constructs a PaymentService. The gateway client is
// built once at process start and injected here; the service never reads
// gateway credentials itself.
func NewPaymentService(db *sql.DB, payments *repository.PaymentRepo, bookings *repository.BookingRepo,
	slots *repository.SlotRepo, stations *repository.StationRepo, gw Gateway, notifier Notifier) *PaymentService {
	if db == nil || payments == nil || bookings == nil || slots == nil || stations == nil || gw == nil {
		panic("nil dependency passed to NewPaymentService")
	}
	return &PaymentService{
		db:       db,
		payments: payments,
		bookings: bookings,
		slots:    slots,
		stations: stations,
		gw:       gw,
		notifier: notifier,
	}
}

// CreatePaymentResult is returned to the client, which uses the order id
// to open the external checkout UI.
type CreatePaymentResult struct {
	PaymentID   uint64 `json:"payment_id"`
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount_paise"`
	Currency    string `json:"currency"`
}

// CreatePayment validates the amount, creates a gateway order and persists
// a PENDING payment for the booking.
//
// The order creation and the insert are not transactional with each other:
// when the insert fails after the order succeeded the external order is
// orphaned, which is acceptable because it expires unused and no money has
// moved. A best-effort station notification follows the insert; its
// failure is surfaced (wrapped in ErrNotifyFailed) together with the
// created result but the payment is not rolled back.
func (s *PaymentService) CreatePayment(ctx context.Context, bookingID, userID uint64, amountRupees float64, txnTag string) (*CreatePaymentResult, error) {
	paise := int64(math.Round(amountRupees * 100))
	if amountRupees <= 0 || paise <= 0 {
		return nil, ErrInvalidAmount
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, repository.ErrForbidden
	}
	// Payment is only allowed against a still-pending booking; an
	// approved or rejected booking cannot be paid for.
	if booking.Status != model.BookingPending {
		return nil, ErrInvalidState
	}

	order, err := s.gw.CreateOrder(ctx, paise, "INR", newReceiptTag(bookingID), map[string]string{
		"booking_id": strconv.FormatUint(bookingID, 10),
		"txn_tag":    txnTag,
	})
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		BookingID:   bookingID,
		UserID:      userID,
		AmountPaise: uint64(paise),
		OrderID:     &order.ID,
		TxnTag:      txnTag,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	res := &CreatePaymentResult{
		PaymentID:   p.ID,
		OrderID:     order.ID,
		AmountPaise: paise,
		Currency:    order.Currency,
	}

	if s.notifier != nil {
		if err := s.notifyStation(ctx, booking, p, amountRupees); err != nil {
			return res, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
		}
	}
	return res, nil
}

// notifyStation assembles and publishes the station notification for a
// created payment.
func (s *PaymentService) notifyStation(ctx context.Context, booking *model.Booking, p *model.Payment, amountRupees float64) error {
	station, err := s.stations.GetByID(ctx, booking.StationID)
	if err != nil {
		return err
	}
	slot, err := s.slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return err
	}
	return s.notifier.PaymentCreated(ctx, q.PaymentCreatedEvent{
		PaymentID:    p.ID,
		BookingID:    booking.ID,
		SlotID:       slot.ID,
		StationID:    station.ID,
		StationName:  station.Name,
		ContactEmail: station.ContactEmail,
		AmountRupees: amountRupees,
		AirsAt:       slot.AirsAt.UTC().Format(time.RFC3339),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// CompleteRequest is the payload of the gateway's checkout callback.
type CompleteRequest struct {
	OrderID      string `json:"order_id"`
	PaymentRefID string `json:"payment_ref_id"`
	Signature    string `json:"signature"`
}

// CompleteResult is the success payload of CompletePayment. Repeated
// callbacks for the same completed payment return the identical result.
type CompleteResult struct {
	BookingID uint64 `json:"booking_id"`
	SlotID    uint64 `json:"slot_id"`
}

// CompletePayment handles the verified callback from the gateway.
//
// The callback may be delivered more than once; an already COMPLETED
// payment returns success immediately. A FAILED payment is terminal and
// yields ErrInvalidState. The supplied order id must match the stored one
// (ErrOrderMismatch otherwise). The signature is recomputed from the
// stored order id and the supplied payment id: a mismatch permanently
// marks the payment FAILED and returns ErrInvalidSignature. On a match
// the payment is compare-and-swapped to COMPLETED and the slot flipped to
// BOOKED inside a single transaction; the booking stays PENDING for the
// admin to decide. A transaction failure after successful verification is
// a critical inconsistency (money captured externally, database not
// reflecting it) and surfaces as ErrInternal after logging.
func (s *PaymentService) CompletePayment(ctx context.Context, paymentID uint64, req CompleteRequest) (*CompleteResult, error) {
	pw, err := s.payments.GetWithBooking(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if pw.Status == model.PaymentCompleted {
		return &CompleteResult{BookingID: pw.BookingID, SlotID: pw.SlotID}, nil
	}
	if pw.Status != model.PaymentPending {
		return nil, ErrInvalidState
	}
	if pw.OrderID == nil || *pw.OrderID != req.OrderID {
		return nil, ErrOrderMismatch
	}

	if !s.gw.VerifySignature(*pw.OrderID, req.PaymentRefID, req.Signature) {
		// One-way trip: the failed check poisons the payment for good. A
		// later callback with the correct signature finds FAILED and is
		// rejected by the terminal-state guard above.
		if err := s.payments.MarkFailed(ctx, paymentID); err != nil {
			log.Printf("payment %d: mark failed after bad signature: %v", paymentID, err)
		}
		return nil, ErrInvalidSignature
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.criticalf(paymentID, "begin completion tx: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	swapped, err := s.payments.CompleteTx(ctx, tx, paymentID, req.PaymentRefID, req.Signature)
	if err != nil {
		return nil, s.criticalf(paymentID, "complete payment: %v", err)
	}
	if !swapped {
		// Lost the race to a concurrent duplicate callback. If that caller
		// committed COMPLETED this one is an idempotent success; anything
		// else means the payment was decided differently underneath us.
		_ = tx.Rollback()
		cur, err := s.payments.GetWithBooking(ctx, paymentID)
		if err != nil {
			return nil, s.criticalf(paymentID, "reload after lost swap: %v", err)
		}
		if cur.Status == model.PaymentCompleted {
			return &CompleteResult{BookingID: cur.BookingID, SlotID: cur.SlotID}, nil
		}
		return nil, ErrInvalidState
	}
	if err := s.slots.MarkBookedTx(ctx, tx, pw.SlotID); err != nil {
		return nil, s.criticalf(paymentID, "mark slot %d booked: %v", pw.SlotID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.criticalf(paymentID, "commit completion tx: %v", err)
	}
	committed = true

	return &CompleteResult{BookingID: pw.BookingID, SlotID: pw.SlotID}, nil
}

// criticalf logs a post-verification persistence failure for manual
// reconciliation and returns ErrInternal.
func (s *PaymentService) criticalf(paymentID uint64, format string, args ...interface{}) error {
	log.Printf("CRITICAL: payment %d requires manual reconciliation: %s", paymentID, fmt.Sprintf(format, args...))
	return ErrInternal
}

// ListPaymentsByUser returns the advertiser's payments with amounts in
// rupees, newest first.
func (s *PaymentService) ListPaymentsByUser(ctx context.Context, userID uint64) ([]repository.PaymentDetail, error) {
	return s.payments.ListByUser(ctx, userID)
}

// newReceiptTag produces a gateway receipt tag bounded to maxReceiptLen.
// Uniqueness beyond the gateway's own constraints is not required; the
// booking id plus random suffix is for human reconciliation.
func newReceiptTag(bookingID uint64) string {
	tag := fmt.Sprintf("bk%d-%s", bookingID, strings.ReplaceAll(uuid.NewString(), "-", ""))
	if len(tag) > maxReceiptLen {
		tag = tag[:maxReceiptLen]
	}
	return tag
}
