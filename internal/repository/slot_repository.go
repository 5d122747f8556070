package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/radio-slot-booking/internal/model"
)

// SlotRepo provides CRUD operations for advertisement slots and owns the
// slot status invariant: a slot goes AVAILABLE -> BOOKED exactly once,
// inside the payment completion transaction, and never back.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so services can open transactions that
// span slots and payments.
func (r *SlotRepo) DB() *sql.DB { return r.db }

// Create inserts a new AVAILABLE slot after verifying that the RJ belongs
// to the station and the station to ownerID. The generated ID is populated
// on the record.
func (r *SlotRepo) Create(ctx context.Context, s *model.Slot, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT st.owner_id FROM rjs r JOIN stations st ON st.id = r.station_id
		 WHERE r.id = ? AND r.station_id = ?`,
		s.RJID, s.StationID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrRJNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (station_id, rj_id, airs_at, price_rupees, status) VALUES (?, ?, ?, ?, ?)`,
		s.StationID, s.RJID, s.AirsAt.UTC(), s.PriceRupees, model.SlotAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SlotAvailable
	return nil
}

// GetByID returns a single slot. ErrSlotNotFound is returned when no row
// exists.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.Slot, error) {
	const q = `SELECT id, station_id, rj_id, airs_at, price_rupees, status, created_at, updated_at
	           FROM slots WHERE id = ?`
	var s model.Slot
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.StationID, &s.RJID, &s.AirsAt, &s.PriceRupees, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAvailableByStation returns AVAILABLE slots of a station ordered by
// air time, optionally filtered by RJ and by calendar day (UTC). Used by
// the public browse endpoints.
func (r *SlotRepo) ListAvailableByStation(ctx context.Context, stationID uint64, rjID uint64, day *time.Time) ([]model.Slot, error) {
	q := `SELECT id, station_id, rj_id, airs_at, price_rupees, status, created_at, updated_at
	      FROM slots WHERE station_id = ? AND status = ?`
	args := []interface{}{stationID, model.SlotAvailable}
	if rjID != 0 {
		q += ` AND rj_id = ?`
		args = append(args, rjID)
	}
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		q += ` AND airs_at >= ? AND airs_at < ?`
		args = append(args, start, start.Add(24*time.Hour))
	}
	q += ` ORDER BY airs_at`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Slot, 0)
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.ID, &s.StationID, &s.RJID, &s.AirsAt, &s.PriceRupees, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner updates a slot's air time and price. Only AVAILABLE
// slots may change; a BOOKED slot is frozen and yields ErrConflict.
func (r *SlotRepo) UpdateByIDAndOwner(ctx context.Context, s *model.Slot, ownerID uint64) error {
	var actualOwner uint64
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT st.owner_id, sl.status FROM slots sl JOIN stations st ON st.id = sl.station_id WHERE sl.id = ?`,
		s.ID).Scan(&actualOwner, &status)
	if err == sql.ErrNoRows {
		return ErrSlotNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	if status != model.SlotAvailable {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE slots SET airs_at = ?, price_rupees = ? WHERE id = ?`,
		s.AirsAt.UTC(), s.PriceRupees, s.ID)
	return err
}

// MarkBookedTx flips a slot to BOOKED within the caller's transaction.
// It is called only from the payment completion path, after the payment
// row has been compare-and-swapped to COMPLETED in the same transaction.
func (r *SlotRepo) MarkBookedTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
	_, err := tx.ExecContext(ctx, `UPDATE slots SET status = ? WHERE id = ?`, model.SlotBooked, slotID)
	return err
}

// DeleteByIDAndOwner removes a slot owned by ownerID. Deletion first
// counts bookings referencing the slot and refuses with ErrConflict when
// any exist; only a slot with zero bookings may be deleted.
func (r *SlotRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var actualOwner uint64
	err = tx.QueryRowContext(ctx,
		`SELECT st.owner_id FROM slots sl JOIN stations st ON st.id = sl.station_id WHERE sl.id = ?`,
		id).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrSlotNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}

	var bookings int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE slot_id = ?`, id).Scan(&bookings); err != nil {
		return err
	}
	if bookings > 0 {
		return ErrConflict
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
