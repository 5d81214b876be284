package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/model"
	"github.com/Sanket4712/moviebook/internal/repository"
)

// AdminHandler serves the catalog management surface: movies, theaters and
// showtimes. All routes behind it require the ADMIN role.
type AdminHandler struct {
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
	Showtimes *repository.ShowtimeRepo
	Bookings  *repository.BookingRepo
}

func NewAdminHandler(movies *repository.MovieRepo, theaters *repository.TheaterRepo, showtimes *repository.ShowtimeRepo, bookings *repository.BookingRepo) *AdminHandler {
	return &AdminHandler{Movies: movies, Theaters: theaters, Showtimes: showtimes, Bookings: bookings}
}

type createMovieReq struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Overview   string `json:"overview" validate:"max=2000"`
	RuntimeMin uint32 `json:"runtime_min" validate:"required,gt=0,lte=600"`
	PosterURL  string `json:"poster_url" validate:"omitempty,url"`
}

// CreateMovie adds a movie to the catalog.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": err.Error()})
	}

	m := &model.Movie{Title: req.Title, Overview: req.Overview, RuntimeMin: req.RuntimeMin, PosterURL: req.PosterURL}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

type createTheaterReq struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Location string `json:"location" validate:"required,max=255"`
	City     string `json:"city" validate:"required,max=120"`
	Screens  uint32 `json:"screens" validate:"required,gt=0,lte=50"`
}

// CreateTheater registers a venue.
func (h *AdminHandler) CreateTheater(c echo.Context) error {
	var req createTheaterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": err.Error()})
	}

	t := &model.Theater{Name: req.Name, Location: req.Location, City: req.City, Screens: req.Screens}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

type createShowtimeReq struct {
	MovieID    uint64 `json:"movie_id" validate:"required,gt=0"`
	TheaterID  uint64 `json:"theater_id" validate:"required,gt=0"`
	Screen     uint32 `json:"screen" validate:"required,gt=0"`
	StartsAt   string `json:"starts_at" validate:"required"` // RFC 3339
	PriceCents uint32 `json:"price_cents" validate:"required,gt=0"`
}

// CreateShowtime schedules a screening. Capacity is fixed by the standard
// seat grid; the seats themselves are materialized lazily on first access.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var req createShowtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": err.Error()})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "starts_at must be RFC 3339"})
	}
	if !startsAt.After(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "starts_at must be in the future"})
	}
	ctx := c.Request().Context()

	// Reject dangling references up front for clean 404s; the FK constraints
	// are the real guard.
	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		return respondError(c, err)
	}
	theater, err := h.Theaters.GetByID(ctx, req.TheaterID)
	if err != nil {
		return respondError(c, err)
	}
	if req.Screen > theater.Screens {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "screen exceeds theater screen count"})
	}

	s := &model.Showtime{
		MovieID:    req.MovieID,
		TheaterID:  req.TheaterID,
		Screen:     req.Screen,
		StartsAt:   startsAt.UTC(),
		PriceCents: req.PriceCents,
		TotalSeats: uint32(repository.DefaultGridRows * repository.DefaultSeatsPerRow),
	}
	if err := h.Showtimes.Create(ctx, s); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

type updatePriceReq struct {
	PriceCents uint32 `json:"price_cents" validate:"required,gt=0"`
}

// UpdateShowtimePrice changes the price for future purchases. Existing
// bookings keep the total they were charged.
func (h *AdminHandler) UpdateShowtimePrice(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid showtime id"})
	}
	var req updatePriceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "price_cents must be positive"})
	}

	if err := h.Showtimes.UpdatePrice(c.Request().Context(), id, req.PriceCents); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "price updated", "showtime_id": id, "price_cents": req.PriceCents})
}

// DeleteShowtime removes a showtime that has no bookings against it. A
// showtime with any booking, cancelled included, is refused to preserve the
// ledger's foreign keys.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid showtime id"})
	}
	if err := h.Showtimes.DeleteByID(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "showtime deleted", "showtime_id": id})
}

// ListMovies returns the catalog for the management screens.
func (h *AdminHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies, "count": len(movies)})
}

// ListTheaters returns all venues for the management screens.
func (h *AdminHandler) ListTheaters(c echo.Context) error {
	theaters, err := h.Theaters.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": theaters, "count": len(theaters)})
}

// CheckInBooking resolves a booking code scanned at the venue entrance. A
// cancelled booking is reported as a conflict so staff reject the ticket.
func (h *AdminHandler) CheckInBooking(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "booking code is required"})
	}

	booking, err := h.Bookings.GetByCode(c.Request().Context(), code)
	if err != nil {
		return respondError(c, err)
	}
	if booking.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":        "conflict",
			"message":      "booking is cancelled",
			"booking_code": booking.Code,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":   booking.ID,
		"booking_code": booking.Code,
		"status":       booking.Status,
		"showtime_id":  booking.ShowtimeID,
		"seats":        booking.SeatLabels,
		"seat_count":   booking.SeatCount,
	})
}

// ListShowtimeBookings returns every booking against one showtime for
// box-office reconciliation.
func (h *AdminHandler) ListShowtimeBookings(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	items, err := h.Bookings.ListByShowtime(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"showtime_id": id, "bookings": items, "count": len(items)})
}
