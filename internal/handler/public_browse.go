// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public browsing API. These routes allow
// unauthenticated users to browse stations, RJs and available slots without
// requiring authentication. Sensitive fields (owner IDs, contact addresses)
// are filtered from responses.

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
// It produces sanitized responses suitable for public consumption.
type PublicHandler struct {
	StationRepo *repository.StationRepo // provides access to station data
	RJRepo      *repository.RJRepo      // provides access to RJ data
	SlotRepo    *repository.SlotRepo    // provides access to slot data
}

// PublicStation represents a station exposed via the public API. It
// contains only safe fields; the owner and contact address stay private.
type PublicStation struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	City      string `json:"city"`
}

// PublicRJ represents an RJ exposed via the public API.
type PublicRJ struct {
	ID   uint64  `json:"id"`
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

// PublicSlot represents an available slot in list responses.
type PublicSlot struct {
	ID          uint64    `json:"id"`
	RJID        uint64    `json:"rj_id"`
	AirsAt      time.Time `json:"airs_at"`
	PriceRupees float64   `json:"price_rupees"`
}

// GetPublicStations returns a list of all stations accessible to
// unauthenticated users. Response JSON contains an "items" array of
// PublicStation.
func (h *PublicHandler) GetPublicStations(c echo.Context) error {
	ctx := c.Request().Context()
	stations, err := h.StationRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicStation, 0, len(stations))
	for _, s := range stations {
		out = append(out, PublicStation{ID: s.ID, Name: s.Name, Frequency: s.Frequency, City: s.City})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicRJsByStation lists RJs of a station for unauthenticated users.
// It validates the station exists, then returns only non-sensitive fields.
func (h *PublicHandler) GetPublicRJsByStation(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	// ensure station exists
	if _, err := h.StationRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrStationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rjs, err := h.RJRepo.ListByStation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRJ, 0, len(rjs))
	for _, rj := range rjs {
		out = append(out, PublicRJ{ID: rj.ID, Name: rj.Name, Bio: rj.Bio})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicSlotsByStation lists AVAILABLE slots of a station ordered by
// air time. Optional query parameters narrow the listing: ?rj_id=N keeps
// one RJ's slots and ?date=YYYY-MM-DD keeps one UTC calendar day. A slot
// claimed by an unpaid PENDING booking still shows here; it only
// disappears once a payment completes and flips it to BOOKED.
func (h *PublicHandler) GetPublicSlotsByStation(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.StationRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrStationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	var rjID uint64
	if raw := c.QueryParam("rj_id"); raw != "" {
		n, ok := parseQueryID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rj_id"})
		}
		rjID = n
	}
	var day *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = &t
	}

	slots, err := h.SlotRepo.ListAvailableByStation(ctx, id, rjID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, PublicSlot{ID: s.ID, RJID: s.RJID, AirsAt: s.AirsAt, PriceRupees: s.PriceRupees})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
