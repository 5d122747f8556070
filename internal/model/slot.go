package model

import "time"

// Slot statuses. A slot moves AVAILABLE -> BOOKED exactly once, and only
// when a payment for its booking is verified. There is no automatic path
// back to AVAILABLE.
const (
	SlotAvailable = "AVAILABLE"
	SlotBooked    = "BOOKED"
)

// Slot represents a bookable advertisement window on a station: a
// (station, RJ, airtime) triple with a price. Slots are created by the
// station admin and flipped to BOOKED by the payment flow; they are never
// deleted while a booking references them.
//
// Fields:
//
//	ID          – primary key identifier.
//	StationID   – station the slot airs on.
//	RJID        – RJ hosting the slot.
//	AirsAt      – absolute air time (UTC).
//	PriceRupees – price in major currency units (rupees).
//	Status      – AVAILABLE or BOOKED.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Slot struct {
	ID          uint64    // slots.id
	StationID   uint64    // slots.station_id
	RJID        uint64    // slots.rj_id
	AirsAt      time.Time // slots.airs_at
	PriceRupees float64   // slots.price_rupees
	Status      string    // slots.status
	CreatedAt   time.Time // slots.created_at
	UpdatedAt   time.Time // slots.updated_at
}
