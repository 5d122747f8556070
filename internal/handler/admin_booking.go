package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/model"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
)

// ListStationBookings handles GET /v1/station-bookings. It returns every
// booking made against the admin's stations, newest first, so the admin
// can review what awaits a decision.
func (h *AdminHandler) ListStationBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.BookingRepo.ListByStationOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ApproveBooking handles POST /v1/bookings/:id/approve. Approval requires
// a COMPLETED payment on the booking; an unpaid booking cannot be
// approved. The transition is PENDING to APPROVED exactly once, so a
// decided booking yields 409.
func (h *AdminHandler) ApproveBooking(c echo.Context) error {
	return h.decideBooking(c, model.BookingApproved)
}

// RejectBooking handles POST /v1/bookings/:id/reject. Rejection does not
// require payment; an admin may turn down a booking at any point while it
// is still PENDING.
func (h *AdminHandler) RejectBooking(c echo.Context) error {
	return h.decideBooking(c, model.BookingRejected)
}

func (h *AdminHandler) decideBooking(c echo.Context, status string) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()

	if status == model.BookingApproved {
		paid, err := h.BookingRepo.HasCompletedPayment(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !paid {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking has no completed payment"})
		}
	}

	if err := h.BookingRepo.SetStatusByIDAndOwner(ctx, id, ownerID, status); err != nil {
		switch err {
		case repository.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already decided"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
