package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/model"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// slotResp is the JSON shape of a slot in admin and public responses.
type slotResp struct {
	ID          uint64    `json:"id"`
	StationID   uint64    `json:"station_id"`
	RJID        uint64    `json:"rj_id"`
	AirsAt      time.Time `json:"airs_at"`
	PriceRupees float64   `json:"price_rupees"`
	Status      string    `json:"status"`
}

func toSlotResp(s *model.Slot) slotResp {
	return slotResp{
		ID:          s.ID,
		StationID:   s.StationID,
		RJID:        s.RJID,
		AirsAt:      s.AirsAt,
		PriceRupees: s.PriceRupees,
		Status:      s.Status,
	}
}

// slotBody carries the client-supplied slot fields. AirsAt must be RFC3339.
type slotBody struct {
	StationID   uint64  `json:"station_id"`
	RJID        uint64  `json:"rj_id"`
	AirsAt      string  `json:"airs_at"`
	PriceRupees float64 `json:"price_rupees"`
}

// CreateSlot handles POST /v1/slots and creates an AVAILABLE slot under
// one of the admin's (station, RJ) pairs.
func (h *AdminHandler) CreateSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body slotBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.StationID == 0 || body.RJID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "station_id and rj_id are required"})
	}
	airsAt, err := time.Parse(time.RFC3339, body.AirsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airs_at must be RFC3339"})
	}
	if body.PriceRupees <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_rupees must be positive"})
	}
	slot := &model.Slot{
		StationID:   body.StationID,
		RJID:        body.RJID,
		AirsAt:      airsAt,
		PriceRupees: body.PriceRupees,
	}
	if err := h.SlotRepo.Create(c.Request().Context(), slot, ownerID); err != nil {
		switch err {
		case repository.ErrRJNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rj not found in station"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create slot"})
	}
	return c.JSON(http.StatusCreated, toSlotResp(slot))
}

// UpdateSlot handles PUT/PATCH /v1/slots/:id. Only the air time and price
// may change, and only while the slot is still AVAILABLE; a BOOKED slot
// is frozen and yields 409.
func (h *AdminHandler) UpdateSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body slotBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	airsAt, err := time.Parse(time.RFC3339, body.AirsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "airs_at must be RFC3339"})
	}
	if body.PriceRupees <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_rupees must be positive"})
	}
	slot := &model.Slot{ID: id, AirsAt: airsAt, PriceRupees: body.PriceRupees}
	if err := h.SlotRepo.UpdateByIDAndOwner(c.Request().Context(), slot, ownerID); err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "booked slot cannot be changed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.SlotRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toSlotResp(updated))
}

// DeleteSlot handles DELETE /v1/slots/:id. Refused with 409 while a
// booking references the slot.
func (h *AdminHandler) DeleteSlot(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.SlotRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
