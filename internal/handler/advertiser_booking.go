package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/repository"
	"github.com/iliyamo/radio-slot-booking/internal/service"
)

// AdvertiserHandler groups the services advertisers use to claim slots
// and pay for them. All methods assume JWT authentication and role
// validation have already been performed by middleware; they may still
// return 401 when the user ID cannot be extracted from the context.
type AdvertiserHandler struct {
	Bookings *service.BookingService
	Payments *service.PaymentService
}

// NewAdvertiserHandler constructs a new AdvertiserHandler with the
// provided services. All dependencies must be non-nil.
func NewAdvertiserHandler(bookings *service.BookingService, payments *service.PaymentService) *AdvertiserHandler {
	if bookings == nil || payments == nil {
		panic("nil service passed to NewAdvertiserHandler")
	}
	return &AdvertiserHandler{Bookings: bookings, Payments: payments}
}

// bookingResp is the JSON shape of a freshly created booking.
type bookingResp struct {
	ID        uint64    `json:"id"`
	StationID uint64    `json:"station_id"`
	RJID      uint64    `json:"rj_id"`
	SlotID    uint64    `json:"slot_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBooking handles POST /v1/bookings. It claims a slot for the
// advertiser: the booking starts PENDING and the slot's unique key makes
// sure at most one booking ever exists per slot. A lost race reads the
// same as any other taken slot and returns 409.
func (h *AdvertiserHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		StationID uint64 `json:"station_id"`
		RJID      uint64 `json:"rj_id"`
		SlotID    uint64 `json:"slot_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.StationID == 0 || body.RJID == 0 || body.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "station_id, rj_id and slot_id are required"})
	}

	b, err := h.Bookings.CreateBooking(c.Request().Context(), userID, body.StationID, body.RJID, body.SlotID)
	if err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrSlotTaken:
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	return c.JSON(http.StatusCreated, bookingResp{
		ID:        b.ID,
		StationID: b.StationID,
		RJID:      b.RJID,
		SlotID:    b.SlotID,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	})
}

// ListMyBookings handles GET /v1/my-bookings. It returns the advertiser's
// bookings joined with slot and station detail, newest first. When no
// bookings exist an empty array is returned.
func (h *AdvertiserHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListBookingsByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
