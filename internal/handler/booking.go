package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-seat-reservation/internal/availability"
	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/reservation"
)

// BookingHandler exposes the two mutating operations, Book and Cancel,
// plus booking lookup.  Booking failures carry the current
// availability snapshot for the requested train so callers can present
// alternatives without a second round trip.
type BookingHandler struct {
	Coord *reservation.Coordinator
	View  *availability.View
}

// NewBookingHandler constructs the handler.  Both dependencies must be
// non-nil.
func NewBookingHandler(coord *reservation.Coordinator, view *availability.View) *BookingHandler {
	if coord == nil || view == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Coord: coord, View: view}
}

// bookBody is the JSON request for POST /v1/bookings.
type bookBody struct {
	Train          string `json:"train"`
	TravelDate     string `json:"travel_date"`
	StartStation   string `json:"start_station"`
	EndStation     string `json:"end_station"`
	Class          string `json:"class"`
	Berth          string `json:"berth"`
	Quota          string `json:"quota"`
	Seats          int    `json:"seats"`
	Passenger      string `json:"passenger"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Create handles POST /v1/bookings.  It returns 201 with the booking
// (CONFIRMED or WAITLISTED).  Clients should send an idempotency_key
// so a retried request cannot double-book.
func (h *BookingHandler) Create(c echo.Context) error {
	var body bookBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Seats == 0 {
		body.Seats = 1
	}
	if body.Quota == "" {
		body.Quota = string(model.QuotaGeneral)
	}

	booking, err := h.Coord.Book(reservation.BookRequest{
		Train:          body.Train,
		TravelDate:     body.TravelDate,
		StartStation:   body.StartStation,
		EndStation:     body.EndStation,
		Class:          body.Class,
		Berth:          body.Berth,
		Quota:          body.Quota,
		Seats:          body.Seats,
		Passenger:      body.Passenger,
		IdempotencyKey: body.IdempotencyKey,
	})
	if err != nil {
		status, code := bookingFailure(err)
		resp := echo.Map{"error": code}
		// best-effort snapshot so the caller sees alternatives
		if snap, qerr := h.View.Query(body.Train, body.TravelDate, body.StartStation, body.EndStation, body.Class); qerr == nil {
			resp["availability"] = snap
		}
		return c.JSON(status, resp)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": bookingJSON(booking)})
}

// Cancel handles DELETE /v1/bookings/:id.  Cancellation is not
// idempotent: a second cancel of the same booking returns 409 so
// client bugs surface instead of being swallowed.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking id is required"})
	}
	booking, err := h.Coord.Cancel(id)
	if err != nil {
		status, code := bookingFailure(err)
		return c.JSON(status, echo.Map{"error": code})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingJSON(booking)})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id := c.Param("id")
	booking, err := h.Coord.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": bookingJSON(booking)})
}

// bookingFailure maps the coordinator taxonomy onto HTTP statuses and
// stable error codes.
func bookingFailure(err error) (int, string) {
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, reservation.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, reservation.ErrQuotaNotOpen):
		return http.StatusConflict, "quota_not_open"
	case errors.Is(err, reservation.ErrWaitlistFull):
		return http.StatusConflict, "waitlist_full"
	case errors.Is(err, reservation.ErrAlreadyCancelled):
		return http.StatusConflict, "already_cancelled"
	case errors.Is(err, reservation.ErrDeparted):
		return http.StatusConflict, "train_departed"
	case errors.Is(err, reservation.ErrBusy):
		return http.StatusServiceUnavailable, "busy"
	}
	return http.StatusInternalServerError, "internal_error"
}

// bookingJSON renders a booking for API responses.
func bookingJSON(b model.Booking) echo.Map {
	m := echo.Map{
		"booking_id":   b.ID,
		"train_number": b.Key.TrainNumber,
		"travel_date":  b.Key.TravelDate,
		"class":        b.Key.Class,
		"berth_type":   b.Key.Berth,
		"quota":        b.Quota,
		"seats":        b.Seats,
		"passenger":    b.Passenger,
		"status":       b.Status,
		"fare_paise":   b.FarePaise,
		"created_at":   b.CreatedAt.Format(time.RFC3339),
	}
	if b.Status == model.StatusWaitlisted {
		m["waitlist_position"] = b.WaitlistPosition
	}
	if len(b.Berths) > 0 {
		m["berths"] = b.Berths
	}
	if b.Status == model.StatusCancelled {
		m["refund_paise"] = b.RefundPaise
		m["cancellation_charge_paise"] = b.ChargePaise
		if b.CancelledAt != nil {
			m["cancelled_at"] = b.CancelledAt.Format(time.RFC3339)
		}
	}
	return m
}
