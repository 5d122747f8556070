// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services and handlers to distinguish between failure scenarios. For
// example, ErrSlotTaken indicates that the bookings unique key rejected a
// second insert for the same slot, while ErrConflict signals that an
// operation cannot proceed due to existing dependent records (e.g.
// deleting a slot that a booking references).
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a slot that still has a
// booking. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSlotTaken is returned when an insert into bookings loses the race on
// the slot_id unique key. Exactly one of any set of concurrent bookings
// for a slot succeeds; all others receive this error.
var ErrSlotTaken = errors.New("slot already booked")

// ErrPaymentExists is returned when a second payment is created for a
// booking that already has one (payments.booking_id unique key).
var ErrPaymentExists = errors.New("payment already exists for booking")

// Per-entity not-found sentinels. Repositories return these instead of
// sql.ErrNoRows so callers do not need to import database/sql.
var (
	ErrStationNotFound = errors.New("station not found")
	ErrRJNotFound      = errors.New("rj not found")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
// The driver surfaces the code inside the error string.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
