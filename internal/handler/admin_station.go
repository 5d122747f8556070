package handler // handler package contains admin-side station handlers

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities
	"time"     // response timestamp formatting

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/radio-slot-booking/internal/model"      // domain models
	"github.com/iliyamo/radio-slot-booking/internal/repository" // repository holds database access
)

// stationResp is the JSON shape of a station in admin responses.
type stationResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Frequency    string    `json:"frequency"`
	City         string    `json:"city"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
}

func toStationResp(s *model.Station) stationResp {
	return stationResp{
		ID:           s.ID,
		Name:         s.Name,
		Frequency:    s.Frequency,
		City:         s.City,
		ContactEmail: s.ContactEmail,
		CreatedAt:    s.CreatedAt,
	}
}

// CreateStation handles POST /v1/stations and creates a new station owned
// by the authenticated admin.
func (h *AdminHandler) CreateStation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name         string `json:"name"`
		Frequency    string `json:"frequency"`
		City         string `json:"city"`
		ContactEmail string `json:"contact_email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.ContactEmail)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact_email is required"})
	}
	station := &model.Station{
		OwnerID:      ownerID,
		Name:         name,
		Frequency:    strings.TrimSpace(body.Frequency),
		City:         strings.TrimSpace(body.City),
		ContactEmail: email,
	}
	if err := h.StationRepo.Create(c.Request().Context(), station); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "station name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create station"})
	}
	return c.JSON(http.StatusCreated, toStationResp(station))
}

// UpdateStation handles PUT/PATCH /v1/stations/:id and updates the mutable
// station fields. Only the owner may update; all fields are replaced.
func (h *AdminHandler) UpdateStation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name         string `json:"name"`
		Frequency    string `json:"frequency"`
		City         string `json:"city"`
		ContactEmail string `json:"contact_email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.ContactEmail)
	if name == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and contact_email are required"})
	}
	station := &model.Station{
		ID:           id,
		Name:         name,
		Frequency:    strings.TrimSpace(body.Frequency),
		City:         strings.TrimSpace(body.City),
		ContactEmail: email,
	}
	if err := h.StationRepo.UpdateByIDAndOwner(c.Request().Context(), station, ownerID); err != nil {
		switch err {
		case repository.ErrStationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "station name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.StationRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toStationResp(updated))
}

// DeleteStation handles DELETE /v1/stations/:id. The station's RJs and
// slots are removed with it; the delete is refused with 409 while any
// booking still references one of its slots.
func (h *AdminHandler) DeleteStation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.StationRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrStationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "station has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
