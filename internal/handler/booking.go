package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/model"
	"github.com/Sanket4712/moviebook/internal/repository"
	"github.com/Sanket4712/moviebook/internal/service"
	"github.com/Sanket4712/moviebook/internal/utils"
)

// BookingHandler serves the authenticated customer booking surface. All
// transactional work is delegated to the booking service; the handler only
// binds requests, enforces ownership on reads and shapes responses.
type BookingHandler struct {
	Service  *service.BookingService
	Bookings *repository.BookingRepo
}

func NewBookingHandler(svc *service.BookingService, bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Service: svc, Bookings: bookings}
}

type createBookingReq struct {
	ShowtimeID uint64 `json:"showtime_id" validate:"required,gt=0"`
	Seats      string `json:"seats" validate:"required"`
}

// CreateBooking books a set of seats on a showtime for the authenticated
// user. Seats arrive as a comma-separated label string ("A1,A2"); the whole
// request succeeds or fails atomically.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "showtime_id and seats are required"})
	}

	booking, err := h.Service.CreateBooking(c.Request().Context(), userID, req.ShowtimeID, strings.Split(req.Seats, ","))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":   booking.ID,
		"booking_code": booking.Code,
		"status":       booking.Status,
		"showtime_id":  booking.ShowtimeID,
		"seats":        booking.SeatLabels,
		"total_cents":  booking.TotalCents,
		"created_at":   booking.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// CancelBooking cancels a booking, releasing its seats. Customers may cancel
// only their own bookings; admins may cancel any.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid booking id"})
	}

	if err := h.Service.CancelBooking(c.Request().Context(), userID, getRole(c), bookingID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled", "booking_id": bookingID})
}

// ListMyBookings returns the authenticated user's booking history, newest
// first, including cancelled bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}

	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items, "count": len(items)})
}

// GetBooking returns one booking. Customers see only their own; an admin may
// inspect any booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid booking id"})
	}

	booking, err := h.Bookings.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		return respondError(c, err)
	}
	if booking.UserID != userID && getRole(c) != model.RoleAdmin {
		return respondError(c, repository.ErrForbidden)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":   booking.ID,
		"booking_code": booking.Code,
		"status":       booking.Status,
		"showtime_id":  booking.ShowtimeID,
		"seats":        booking.SeatLabels,
		"total_cents":  booking.TotalCents,
		"created_at":   booking.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// BookingQR renders the booking code as a PNG QR image for ticket scanning
// at the venue. Cancelled bookings have no valid ticket.
func (h *BookingHandler) BookingQR(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid booking id"})
	}

	booking, err := h.Bookings.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		return respondError(c, err)
	}
	if booking.UserID != userID && getRole(c) != model.RoleAdmin {
		return respondError(c, repository.ErrForbidden)
	}
	if booking.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": "booking is cancelled"})
	}

	png, err := utils.BookingQRCode(booking.Code, 256)
	if err != nil {
		return respondError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
