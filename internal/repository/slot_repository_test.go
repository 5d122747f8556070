package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/radio-slot-booking/internal/model"
)

func setupSlotRepoTest(t *testing.T) (*SlotRepo, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSlotRepo(db), mock, func() { db.Close() }
}

func TestSlotUpdateRefusedWhenBooked(t *testing.T) {
	repo, mock, cleanup := setupSlotRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT st.owner_id, sl.status FROM slots").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow(9, "BOOKED"))

	s := &model.Slot{ID: 5, AirsAt: time.Now(), PriceRupees: 750}
	err := repo.UpdateByIDAndOwner(context.Background(), s, 9)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotUpdateForbiddenForOtherOwner(t *testing.T) {
	repo, mock, cleanup := setupSlotRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT st.owner_id, sl.status FROM slots").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "status"}).AddRow(9, "AVAILABLE"))

	s := &model.Slot{ID: 5, AirsAt: time.Now(), PriceRupees: 750}
	err := repo.UpdateByIDAndOwner(context.Background(), s, 4)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotDeleteRefusedWhileBooked(t *testing.T) {
	repo, mock, cleanup := setupSlotRepoTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT st.owner_id FROM slots").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(9))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE slot_id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.DeleteByIDAndOwner(context.Background(), 5, 9)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotDeleteSuccess(t *testing.T) {
	repo, mock, cleanup := setupSlotRepoTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT st.owner_id FROM slots").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(9))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE slot_id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM slots WHERE id").
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteByIDAndOwner(context.Background(), 5, 9)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailableByStationFilters(t *testing.T) {
	repo, mock, cleanup := setupSlotRepoTest(t)
	defer cleanup()

	day := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery("FROM slots WHERE station_id").
		WithArgs(1, "AVAILABLE", 2, start, start.Add(24*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "station_id", "rj_id", "airs_at", "price_rupees", "status", "created_at", "updated_at"}).
			AddRow(5, 1, 2, start.Add(9*time.Hour), 500.0, "AVAILABLE", now, now))

	slots, err := repo.ListAvailableByStation(context.Background(), 1, 2, &day)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, uint64(5), slots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
