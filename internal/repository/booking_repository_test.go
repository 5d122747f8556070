package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBookingRepoTest(t *testing.T) (*BookingRepo, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewBookingRepo(db), mock, func() { db.Close() }
}

func TestSetStatusRefusedOnDecidedBooking(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT st.owner_id FROM bookings").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(9))
	// the update is scoped to status='PENDING'; a decided booking matches no rows
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("APPROVED", 7, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatusByIDAndOwner(context.Background(), 7, 9, "APPROVED")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusForbiddenForOtherOwner(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT st.owner_id FROM bookings").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(9))

	err := repo.SetStatusByIDAndOwner(context.Background(), 7, 4, "REJECTED")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusNotFound(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT st.owner_id FROM bookings").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

	err := repo.SetStatusByIDAndOwner(context.Background(), 7, 9, "APPROVED")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasCompletedPayment(t *testing.T) {
	repo, mock, cleanup := setupBookingRepoTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments").
		WithArgs(7, "COMPLETED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM payments").
		WithArgs(7, "COMPLETED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	paid, err := repo.HasCompletedPayment(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, paid)

	paid, err = repo.HasCompletedPayment(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
