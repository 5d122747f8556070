package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/radio-slot-booking/internal/repository" // repository holds data access layer
)

// AdminHandler bundles repositories for station owners to manipulate
// their stations, RJs, slots and to decide on incoming bookings.
type AdminHandler struct {
	StationRepo *repository.StationRepo // StationRepo provides station persistence
	RJRepo      *repository.RJRepo      // RJRepo provides RJ persistence
	SlotRepo    *repository.SlotRepo    // SlotRepo provides slot persistence
	BookingRepo *repository.BookingRepo // BookingRepo provides booking persistence
}

// NewAdminHandler constructs a new AdminHandler and panics if any dependency is nil
func NewAdminHandler(stationRepo *repository.StationRepo, rjRepo *repository.RJRepo, slotRepo *repository.SlotRepo, bookingRepo *repository.BookingRepo) *AdminHandler {
	if stationRepo == nil || rjRepo == nil || slotRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		StationRepo: stationRepo,
		RJRepo:      rjRepo,
		SlotRepo:    slotRepo,
		BookingRepo: bookingRepo,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :id style path parameter. Zero is rejected
// because generated keys start at one.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// parseQueryID parses a numeric query parameter value with the same rules
// as pathID.
func parseQueryID(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
