package service

import (
	"context"

	"github.com/iliyamo/radio-slot-booking/internal/model"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// BookingService creates bookings against slots. It performs existence
// checks for friendlier errors, but the real double-booking defense is the
// unique key on bookings.slot_id: two concurrent creates for the same slot
// both pass the existence check and exactly one insert wins, the other
// receives ErrSlotTaken from the store.
type BookingService struct {
	bookings *repository.BookingRepo
	slots    *repository.SlotRepo
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings *repository.BookingRepo, slots *repository.SlotRepo) *BookingService {
	if bookings == nil || slots == nil {
		panic("nil repository passed to NewBookingService")
	}
	return &BookingService{bookings: bookings, slots: slots}
}

// CreateBooking inserts a PENDING booking for the advertiser. The slot
// must exist and belong to the (station, RJ) pair named in the request;
// a mismatch reads the same as a missing slot. The slot's status is not
// touched here: a slot only becomes BOOKED when a payment completes, so a
// PENDING booking without payment leaves the slot AVAILABLE in listings
// while the unique key still blocks rival bookings.
func (s *BookingService) CreateBooking(ctx context.Context, userID, stationID, rjID, slotID uint64) (*model.Booking, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.StationID != stationID || slot.RJID != rjID {
		return nil, repository.ErrSlotNotFound
	}
	b := &model.Booking{
		UserID:    userID,
		StationID: stationID,
		RJID:      rjID,
		SlotID:    slotID,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookingsByUser returns the advertiser's bookings, newest first.
func (s *BookingService) ListBookingsByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, userID)
}
