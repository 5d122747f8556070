package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/radio-slot-booking/internal/gateway"
	"github.com/iliyamo/radio-slot-booking/internal/queue"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// stubGateway satisfies Gateway without any network I/O.
type stubGateway struct {
	orders    int
	lastPaise int64
	orderID   string
	orderErr  error
	validSig  string
}

func (g *stubGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (gateway.Order, error) {
	g.orders++
	g.lastPaise = amountPaise
	if g.orderErr != nil {
		return gateway.Order{}, g.orderErr
	}
	return gateway.Order{ID: g.orderID, Amount: amountPaise, Currency: currency}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == g.validSig
}

// stubNotifier records events and optionally fails.
type stubNotifier struct {
	events []queue.PaymentCreatedEvent
	err    error
}

func (n *stubNotifier) PaymentCreated(ctx context.Context, ev queue.PaymentCreatedEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

func setupPaymentTest(t *testing.T, gw Gateway, notifier Notifier) (*PaymentService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := NewPaymentService(db,
		repository.NewPaymentRepo(db),
		repository.NewBookingRepo(db),
		repository.NewSlotRepo(db),
		repository.NewStationRepo(db),
		gw, notifier)

	return svc, mock, func() { db.Close() }
}

func bookingRow(id, userID, stationID, rjID, slotID uint64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "station_id", "rj_id", "slot_id", "status", "created_at", "updated_at"}).
		AddRow(id, userID, stationID, rjID, slotID, status, now, now)
}

func paymentRow(id, bookingID, slotID uint64, paise uint64, status, bookingStatus string, orderID interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "booking_id", "user_id", "amount_paise", "status",
		"order_id", "payment_ref_id", "signature", "txn_tag", "created_at", "updated_at",
		"b_status", "slot_id",
	}).AddRow(id, bookingID, 3, paise, status, orderID, nil, nil, "tag", now, now, bookingStatus, slotID)
}

func TestCreatePaymentConvertsRupeesToPaise(t *testing.T) {
	gw := &stubGateway{orderID: "order_abc"}
	notifier := &stubNotifier{}
	svc, mock, cleanup := setupPaymentTest(t, gw, notifier)
	defer cleanup()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(7).
		WillReturnRows(bookingRow(7, 3, 1, 2, 5, "PENDING"))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(7, 3, 20000, "PENDING", "order_abc", "diwali").
		WillReturnResult(sqlmock.NewResult(11, 1))
	// station notification lookups
	now := time.Now()
	mock.ExpectQuery("FROM stations WHERE id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "frequency", "city", "contact_email", "created_at", "updated_at"}).
			AddRow(1, 9, "Radio Mirchi", "98.3 FM", "Mumbai", "ops@mirchi.example", now, now))
	mock.ExpectQuery("FROM slots WHERE id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "station_id", "rj_id", "airs_at", "price_rupees", "status", "created_at", "updated_at"}).
			AddRow(5, 1, 2, now.Add(48*time.Hour), 199.995, "AVAILABLE", now, now))

	// 199.995 rupees rounds half-up to exactly 20000 paise
	res, err := svc.CreatePayment(context.Background(), 7, 3, 199.995, "diwali")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), gw.lastPaise)
	assert.Equal(t, int64(20000), res.AmountPaise)
	assert.Equal(t, uint64(11), res.PaymentID)
	assert.Equal(t, "order_abc", res.OrderID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, uint64(11), notifier.events[0].PaymentID)
	assert.Equal(t, "ops@mirchi.example", notifier.events[0].ContactEmail)
	assert.Equal(t, 199.995, notifier.events[0].AmountRupees)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	gw := &stubGateway{orderID: "order_abc"}
	svc, mock, cleanup := setupPaymentTest(t, gw, &stubNotifier{})
	defer cleanup()

	for _, amount := range []float64{0, -5, 0.001} {
		_, err := svc.CreatePayment(context.Background(), 7, 3, amount, "")
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
	// nothing reached the gateway or the database
	assert.Zero(t, gw.orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRejectsDecidedBooking(t *testing.T) {
	gw := &stubGateway{orderID: "order_abc"}
	svc, mock, cleanup := setupPaymentTest(t, gw, &stubNotifier{})
	defer cleanup()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(7).
		WillReturnRows(bookingRow(7, 3, 1, 2, 5, "APPROVED"))

	_, err := svc.CreatePayment(context.Background(), 7, 3, 100, "")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, gw.orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRejectsForeignBooking(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{orderID: "o"}, &stubNotifier{})
	defer cleanup()

	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(7).
		WillReturnRows(bookingRow(7, 99, 1, 2, 5, "PENDING"))

	_, err := svc.CreatePayment(context.Background(), 7, 3, 100, "")
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentSurfacesNotifyFailureWithResult(t *testing.T) {
	gw := &stubGateway{orderID: "order_abc"}
	notifier := &stubNotifier{err: errors.New("broker down")}
	svc, mock, cleanup := setupPaymentTest(t, gw, notifier)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("FROM bookings WHERE id").
		WithArgs(7).
		WillReturnRows(bookingRow(7, 3, 1, 2, 5, "PENDING"))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM stations WHERE id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "frequency", "city", "contact_email", "created_at", "updated_at"}).
			AddRow(1, 9, "Radio Mirchi", "98.3 FM", "Mumbai", "ops@mirchi.example", now, now))
	mock.ExpectQuery("FROM slots WHERE id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "station_id", "rj_id", "airs_at", "price_rupees", "status", "created_at", "updated_at"}).
			AddRow(5, 1, 2, now, 100.0, "AVAILABLE", now, now))

	res, err := svc.CreatePayment(context.Background(), 7, 3, 100, "")
	assert.ErrorIs(t, err, ErrNotifyFailed)
	// the payment is created regardless of the notification outcome
	require.NotNil(t, res)
	assert.Equal(t, uint64(11), res.PaymentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentIdempotentOnCompleted(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{}, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "COMPLETED", "PENDING", "order_abc"))

	res, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_abc", PaymentRefID: "pay_x", Signature: "whatever",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.BookingID)
	assert.Equal(t, uint64(5), res.SlotID)
	// no update, no transaction
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentFailedIsTerminal(t *testing.T) {
	gw := &stubGateway{validSig: "good"}
	svc, mock, cleanup := setupPaymentTest(t, gw, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "FAILED", "PENDING", "order_abc"))

	// even a correct signature cannot revive a FAILED payment
	_, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_abc", PaymentRefID: "pay_x", Signature: "good",
	})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentOrderMismatch(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{validSig: "good"}, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "PENDING", "PENDING", "order_abc"))

	_, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_other", PaymentRefID: "pay_x", Signature: "good",
	})
	assert.ErrorIs(t, err, ErrOrderMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentBadSignatureMarksFailed(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{validSig: "good"}, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "PENDING", "PENDING", "order_abc"))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("FAILED", 11, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_abc", PaymentRefID: "pay_x", Signature: "forged",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentHappyPath(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{validSig: "good"}, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "PENDING", "PENDING", "order_abc"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("COMPLETED", "pay_x", "good", 11, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE slots SET status").
		WithArgs("BOOKED", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_abc", PaymentRefID: "pay_x", Signature: "good",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.BookingID)
	assert.Equal(t, uint64(5), res.SlotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentLostSwapToCompletedWinner(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{validSig: "good"}, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "PENDING", "PENDING", "order_abc"))
	mock.ExpectBegin()
	// swap affects zero rows: a concurrent callback already decided it
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("COMPLETED", "pay_x", "good", 11, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	// the reload finds COMPLETED, so this call is an idempotent success
	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "COMPLETED", "PENDING", "order_abc"))

	res, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_abc", PaymentRefID: "pay_x", Signature: "good",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), res.BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePaymentCommitFailureIsInternal(t *testing.T) {
	svc, mock, cleanup := setupPaymentTest(t, &stubGateway{validSig: "good"}, nil)
	defer cleanup()

	mock.ExpectQuery("FROM payments p").
		WithArgs(11).
		WillReturnRows(paymentRow(11, 7, 5, 10000, "PENDING", "PENDING", "order_abc"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE slots SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("server gone away"))

	_, err := svc.CompletePayment(context.Background(), 11, CompleteRequest{
		OrderID: "order_abc", PaymentRefID: "pay_x", Signature: "good",
	})
	assert.ErrorIs(t, err, ErrInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewReceiptTagBounded(t *testing.T) {
	tag := newReceiptTag(184467440737095516)
	assert.LessOrEqual(t, len(tag), maxReceiptLen)
	assert.Contains(t, tag, "bk184467440737095516-")
}
