// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentCreatedEvent is published when a payment order has been created
// for a booking. It carries everything the notification consumer needs to
// address the station without querying the primary database.
type PaymentCreatedEvent struct {
	PaymentID    uint64  `json:"payment_id"`
	BookingID    uint64  `json:"booking_id"`
	SlotID       uint64  `json:"slot_id"`
	StationID    uint64  `json:"station_id"`
	StationName  string  `json:"station_name"`
	ContactEmail string  `json:"contact_email"`
	AmountRupees float64 `json:"amount_rupees"`
	AirsAt       string  `json:"airs_at"`
	CreatedAt    string  `json:"created_at"`
}
