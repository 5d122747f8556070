package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/radio-slot-booking/internal/model"
)

// BookingRepo provides operations for bookings. The bookings table carries
// a unique key on slot_id; racing inserts for the same slot are resolved
// there, never by an application-level existence check.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a PENDING booking and populates the generated ID.
// When the slot already has a booking the unique key rejects the insert
// and ErrSlotTaken is returned.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, station_id, rj_id, slot_id, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.StationID, b.RJID, b.SlotID, model.BookingPending)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingPending
	return nil
}

// GetByID returns a single booking. ErrBookingNotFound is returned when no
// row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, station_id, rj_id, slot_id, status, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.StationID, &b.RJID, &b.SlotID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BookingDetail is a booking joined with its slot and station names for
// listing endpoints.
type BookingDetail struct {
	ID          uint64    `json:"id"`
	SlotID      uint64    `json:"slot_id"`
	StationID   uint64    `json:"station_id"`
	StationName string    `json:"station_name"`
	RJID        uint64    `json:"rj_id"`
	RJName      string    `json:"rj_name"`
	AirsAt      time.Time `json:"airs_at"`
	PriceRupees float64   `json:"price_rupees"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListByUser returns the bookings of an advertiser with slot/station
// detail, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.slot_id, b.station_id, st.name, b.rj_id, r.name,
	                  sl.airs_at, sl.price_rupees, b.status, b.created_at
	           FROM bookings b
	           JOIN stations st ON st.id = b.station_id
	           JOIN rjs r ON r.id = b.rj_id
	           JOIN slots sl ON sl.id = b.slot_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, userID)
}

// ListByStationOwner returns every booking whose station belongs to
// ownerID, newest first. Used by the admin approval stage.
func (r *BookingRepo) ListByStationOwner(ctx context.Context, ownerID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.slot_id, b.station_id, st.name, b.rj_id, r.name,
	                  sl.airs_at, sl.price_rupees, b.status, b.created_at
	           FROM bookings b
	           JOIN stations st ON st.id = b.station_id
	           JOIN rjs r ON r.id = b.rj_id
	           JOIN slots sl ON sl.id = b.slot_id
	           WHERE st.owner_id = ?
	           ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, ownerID)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, arg uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.ID, &d.SlotID, &d.StationID, &d.StationName, &d.RJID, &d.RJName,
			&d.AirsAt, &d.PriceRupees, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SetStatusByIDAndOwner transitions a booking to APPROVED or REJECTED on
// behalf of the station owner. The update is scoped to status='PENDING' so
// a decided booking cannot be re-decided; a no-op update yields
// ErrConflict. ErrForbidden is returned when the station belongs to
// another owner.
func (r *BookingRepo) SetStatusByIDAndOwner(ctx context.Context, bookingID, ownerID uint64, status string) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT st.owner_id FROM bookings b JOIN stations st ON st.id = b.station_id WHERE b.id = ?`,
		bookingID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		status, bookingID, model.BookingPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// HasCompletedPayment reports whether the booking has a COMPLETED payment.
// The admin approval stage only acts on paid bookings.
func (r *BookingRepo) HasCompletedPayment(ctx context.Context, bookingID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE booking_id = ? AND status = ?`,
		bookingID, model.PaymentCompleted).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
