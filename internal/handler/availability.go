package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-seat-reservation/internal/availability"
	"github.com/iliyamo/railway-seat-reservation/internal/reservation"
)

// AvailabilityHandler serves the read-only availability query.  The
// query is idempotent and side-effect free, so the route sits behind
// the Redis response cache.
type AvailabilityHandler struct {
	View *availability.View
}

// NewAvailabilityHandler constructs the handler.  The view must be
// non-nil.
func NewAvailabilityHandler(v *availability.View) *AvailabilityHandler {
	if v == nil {
		panic("nil view passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{View: v}
}

// Check handles GET /v1/availability.  Required query parameters:
// train (name or number), date (YYYY-MM-DD) and class; from/to are
// optional and validated against the train's route when present.
// A sold-out train still returns 200 with zero availability.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	train := c.QueryParam("train")
	date := c.QueryParam("date")
	class := c.QueryParam("class")
	if train == "" || date == "" || class == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train, date and class are required"})
	}

	snap, err := h.View.Query(train, date, c.QueryParam("from"), c.QueryParam("to"), class)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train or class not found"})
		case errors.Is(err, reservation.ErrInvalidRequest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, station or class"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability query failed"})
	}
	return c.JSON(http.StatusOK, snap)
}
