package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/model"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// rjResp is the JSON shape of an RJ in admin responses.
type rjResp struct {
	ID        uint64    `json:"id"`
	StationID uint64    `json:"station_id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toRJResp(rj *model.RJ) rjResp {
	return rjResp{ID: rj.ID, StationID: rj.StationID, Name: rj.Name, Bio: rj.Bio, CreatedAt: rj.CreatedAt}
}

// CreateRJ handles POST /v1/rjs. The target station must belong to the
// authenticated admin.
func (h *AdminHandler) CreateRJ(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		StationID uint64  `json:"station_id"`
		Name      string  `json:"name"`
		Bio       *string `json:"bio"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if body.StationID == 0 || name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "station_id and name are required"})
	}
	rj := &model.RJ{StationID: body.StationID, Name: name, Bio: body.Bio}
	if err := h.RJRepo.Create(c.Request().Context(), rj, ownerID); err != nil {
		switch err {
		case repository.ErrStationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "station not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create rj"})
	}
	return c.JSON(http.StatusCreated, toRJResp(rj))
}

// UpdateRJ handles PUT/PATCH /v1/rjs/:id and replaces the RJ's name and bio.
func (h *AdminHandler) UpdateRJ(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string  `json:"name"`
		Bio  *string `json:"bio"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	rj := &model.RJ{ID: id, Name: name, Bio: body.Bio}
	if err := h.RJRepo.UpdateByIDAndOwner(c.Request().Context(), rj, ownerID); err != nil {
		switch err {
		case repository.ErrRJNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rj not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.RJRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toRJResp(updated))
}

// DeleteRJ handles DELETE /v1/rjs/:id. Refused with 409 while slots still
// reference the RJ.
func (h *AdminHandler) DeleteRJ(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RJRepo.DeleteByIDAndOwner(c.Request().Context(), id, ownerID); err != nil {
		switch err {
		case repository.ErrRJNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rj not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "rj has slots"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
