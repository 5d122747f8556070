package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/radio-slot-booking/internal/model"
)

// StationRepo provides CRUD operations for stations. Stations are owned by
// ADMIN users; ownership is checked in the repository so that handlers can
// map ErrForbidden to a 403 response.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a new StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repositories.
func (r *StationRepo) DB() *sql.DB { return r.db }

// Create inserts a new station and populates the generated ID.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
	const q = `INSERT INTO stations (owner_id, name, frequency, city, contact_email) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.OwnerID, s.Name, s.Frequency, s.City, s.ContactEmail)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns a single station. ErrStationNotFound is returned when no
// row exists.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
	const q = `SELECT id, owner_id, name, frequency, city, contact_email, created_at, updated_at
	           FROM stations WHERE id = ?`
	var s model.Station
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Frequency, &s.City, &s.ContactEmail, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAll returns every station ordered by name. Used by the public browse
// endpoints.
func (r *StationRepo) ListAll(ctx context.Context) ([]model.Station, error) {
	const q = `SELECT id, owner_id, name, frequency, city, contact_email, created_at, updated_at
	           FROM stations ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Frequency, &s.City, &s.ContactEmail, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner updates the mutable station fields when the station
// belongs to ownerID. Returns ErrStationNotFound when the station does not
// exist and ErrForbidden when it belongs to someone else.
func (r *StationRepo) UpdateByIDAndOwner(ctx context.Context, s *model.Station, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM stations WHERE id = ?`, s.ID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrStationNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE stations SET name = ?, frequency = ?, city = ?, contact_email = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, s.Name, s.Frequency, s.City, s.ContactEmail, s.ID)
	return err
}

// DeleteByIDAndOwner removes a station together with its RJs and slots.
// Deletion is refused with ErrConflict while any booking references one of
// the station's slots, since bookings must keep their slot rows.
func (r *StationRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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
	err = tx.QueryRowContext(ctx, `SELECT owner_id FROM stations WHERE id = ?`, id).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrStationNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}

	var bookings int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings b JOIN slots s ON s.id = b.slot_id WHERE s.station_id = ?`,
		id).Scan(&bookings)
	if err != nil {
		return err
	}
	if bookings > 0 {
		return ErrConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM slots WHERE station_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM rjs WHERE station_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
