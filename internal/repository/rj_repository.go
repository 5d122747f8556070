package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/radio-slot-booking/internal/model"
)

// RJRepo provides CRUD operations for radio jockeys. An RJ always belongs
// to a station; write operations verify that the station is owned by the
// calling admin.
type RJRepo struct {
	db *sql.DB
}

// NewRJRepo returns a new RJRepo bound to the given database.
func NewRJRepo(db *sql.DB) *RJRepo { return &RJRepo{db: db} }

// Create inserts an RJ under the given station after verifying that the
// station exists and is owned by ownerID. The generated ID is populated on
// the record.
func (r *RJRepo) Create(ctx context.Context, rj *model.RJ, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM stations WHERE id = ?`, rj.StationID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrStationNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rjs (station_id, name, bio) VALUES (?, ?, ?)`,
		rj.StationID, rj.Name, rj.Bio)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rj.ID = uint64(id)
	return nil
}

// GetByID returns a single RJ. ErrRJNotFound is returned when no row
// exists.
func (r *RJRepo) GetByID(ctx context.Context, id uint64) (*model.RJ, error) {
	const q = `SELECT id, station_id, name, bio, created_at, updated_at FROM rjs WHERE id = ?`
	var rj model.RJ
	var bio sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rj.ID, &rj.StationID, &rj.Name, &bio, &rj.CreatedAt, &rj.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRJNotFound
	}
	if err != nil {
		return nil, err
	}
	if bio.Valid {
		b := bio.String
		rj.Bio = &b
	}
	return &rj, nil
}

// ListByStation returns all RJs of a station ordered by name. Used by the
// public browse endpoints; the station's existence is not re-checked so an
// unknown station simply yields an empty list.
func (r *RJRepo) ListByStation(ctx context.Context, stationID uint64) ([]model.RJ, error) {
	const q = `SELECT id, station_id, name, bio, created_at, updated_at FROM rjs WHERE station_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RJ, 0)
	for rows.Next() {
		var rj model.RJ
		var bio sql.NullString
		if err := rows.Scan(&rj.ID, &rj.StationID, &rj.Name, &bio, &rj.CreatedAt, &rj.UpdatedAt); err != nil {
			return nil, err
		}
		if bio.Valid {
			b := bio.String
			rj.Bio = &b
		}
		out = append(out, rj)
	}
	return out, rows.Err()
}

// UpdateByIDAndOwner updates an RJ's name and bio when its station belongs
// to ownerID.
func (r *RJRepo) UpdateByIDAndOwner(ctx context.Context, rj *model.RJ, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT s.owner_id FROM rjs r JOIN stations s ON s.id = r.station_id WHERE r.id = ?`,
		rj.ID).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrRJNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `UPDATE rjs SET name = ?, bio = ? WHERE id = ?`, rj.Name, rj.Bio, rj.ID)
	return err
}

// DeleteByIDAndOwner removes an RJ when its station belongs to ownerID.
// Deletion is refused with ErrConflict while slots still reference the RJ.
func (r *RJRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT s.owner_id FROM rjs r JOIN stations s ON s.id = r.station_id WHERE r.id = ?`,
		id).Scan(&actualOwner)
	if err == sql.ErrNoRows {
		return ErrRJNotFound
	}
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	var slots int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots WHERE rj_id = ?`, id).Scan(&slots); err != nil {
		return err
	}
	if slots > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM rjs WHERE id = ?`, id)
	return err
}
