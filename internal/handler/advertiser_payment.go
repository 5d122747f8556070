package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/gateway"
	"github.com/iliyamo/radio-slot-booking/internal/repository"
	"github.com/iliyamo/radio-slot-booking/internal/service"
)

// CreatePayment handles POST /v1/payments. It creates a gateway order for
// the booking's amount and persists a PENDING payment. The client takes
// the returned order id into the external checkout UI.
//
// A station notification failure does not undo the payment; the created
// payment is returned together with a warning so the client does not
// retry the whole creation.
func (h *AdvertiserHandler) CreatePayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingID    uint64  `json:"booking_id"`
		AmountRupees float64 `json:"amount_rupees"`
		TxnTag       string  `json:"txn_tag"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}

	res, err := h.Payments.CreatePayment(c.Request().Context(), body.BookingID, userID, body.AmountRupees, body.TxnTag)
	if err != nil {
		if errors.Is(err, service.ErrNotifyFailed) && res != nil {
			return c.JSON(http.StatusCreated, echo.Map{
				"payment": res,
				"warning": "station notification failed",
			})
		}
		switch err {
		case service.ErrInvalidAmount:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
		case service.ErrInvalidState:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already decided"})
		case repository.ErrBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case repository.ErrPaymentExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment already exists for booking"})
		}
		if gateway.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "gateway rejected the order"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create payment"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment": res})
}

// VerifyPayment handles POST /v1/payments/:id/verify, the callback a
// client relays after external checkout. Completion is idempotent: a
// repeated callback for an already COMPLETED payment succeeds with the
// same body. A bad signature permanently fails the payment.
func (h *AdvertiserHandler) VerifyPayment(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req service.CompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.OrderID == "" || req.PaymentRefID == "" || req.Signature == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_id, payment_ref_id and signature are required"})
	}

	res, err := h.Payments.CompletePayment(c.Request().Context(), id, req)
	if err != nil {
		switch err {
		case repository.ErrPaymentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		case service.ErrOrderMismatch:
			return c.JSON(http.StatusConflict, echo.Map{"error": "order id mismatch"})
		case service.ErrInvalidSignature:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
		case service.ErrInvalidState:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment not verifiable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":     "COMPLETED",
		"booking_id": res.BookingID,
		"slot_id":    res.SlotID,
	})
}

// ListMyPayments handles GET /v1/my-payments and returns the advertiser's
// payments with amounts converted back to rupees, newest first.
func (h *AdvertiserHandler) ListMyPayments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Payments.ListPaymentsByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
