package model

import "time"

// Booking statuses. A booking is created PENDING and moves to APPROVED or
// REJECTED only by the station admin, and only after its payment has
// completed. Approval and rejection are terminal.
const (
	BookingPending  = "PENDING"
	BookingApproved = "APPROVED"
	BookingRejected = "REJECTED"
)

// Booking records an advertiser's claim on a slot, pending admin
// ratification. The slot reference is unique across all bookings: at most
// one booking ever references a slot, which is the sole defense against
// double booking (the database rejects the second insert).
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – advertiser who made the booking.
//	StationID – station of the booked slot.
//	RJID      – RJ of the booked slot.
//	SlotID    – the slot being claimed (unique).
//	Status    – PENDING, APPROVED or REJECTED.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64    // bookings.id
	UserID    uint64    // bookings.user_id
	StationID uint64    // bookings.station_id
	RJID      uint64    // bookings.rj_id
	SlotID    uint64    // bookings.slot_id
	Status    string    // bookings.status
	CreatedAt time.Time // bookings.created_at
	UpdatedAt time.Time // bookings.updated_at
}
