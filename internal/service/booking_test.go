package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

func setupBookingTest(t *testing.T) (*BookingService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	svc := NewBookingService(repository.NewBookingRepo(db), repository.NewSlotRepo(db))
	return svc, mock, func() { db.Close() }
}

func slotRow(id, stationID, rjID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "station_id", "rj_id", "airs_at", "price_rupees", "status", "created_at", "updated_at"}).
		AddRow(id, stationID, rjID, now.Add(24*time.Hour), 500.0, "AVAILABLE", now, now)
}

func TestCreateBookingSuccess(t *testing.T) {
	svc, mock, cleanup := setupBookingTest(t)
	defer cleanup()

	mock.ExpectQuery("FROM slots WHERE id").
		WithArgs(5).
		WillReturnRows(slotRow(5, 1, 2))
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(3, 1, 2, 5, "PENDING").
		WillReturnResult(sqlmock.NewResult(7, 1))

	b, err := svc.CreateBooking(context.Background(), 3, 1, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), b.ID)
	assert.Equal(t, "PENDING", b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSlotMismatchReadsAsNotFound(t *testing.T) {
	svc, mock, cleanup := setupBookingTest(t)
	defer cleanup()

	// the slot exists but under a different (station, RJ) pair
	mock.ExpectQuery("FROM slots WHERE id").
		WithArgs(5).
		WillReturnRows(slotRow(5, 8, 9))

	_, err := svc.CreateBooking(context.Background(), 3, 1, 2, 5)
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingLostRaceReturnsSlotTaken(t *testing.T) {
	svc, mock, cleanup := setupBookingTest(t)
	defer cleanup()

	mock.ExpectQuery("FROM slots WHERE id").
		WithArgs(5).
		WillReturnRows(slotRow(5, 1, 2))
	// the unique key on bookings.slot_id rejects the second insert
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(3, 1, 2, 5, "PENDING").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '5' for key 'uq_bookings_slot'"))

	_, err := svc.CreateBooking(context.Background(), 3, 1, 2, 5)
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
