package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/database"
	"github.com/Sanket4712/moviebook/internal/repository"
)

// BrowseHandler serves the public, unauthenticated catalog: movies, theaters,
// showtime listings and per-showtime seat maps.
type BrowseHandler struct {
	DB        *sql.DB
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewBrowseHandler(db *sql.DB, movies *repository.MovieRepo, theaters *repository.TheaterRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo) *BrowseHandler {
	return &BrowseHandler{DB: db, Movies: movies, Theaters: theaters, Showtimes: showtimes, Seats: seats}
}

// ListMovies returns the full catalog, newest first.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies, "count": len(movies)})
}

// GetMovie returns a single movie by id.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid movie id"})
	}
	movie, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// ListTheaters returns all theaters.
func (h *BrowseHandler) ListTheaters(c echo.Context) error {
	theaters, err := h.Theaters.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"theaters": theaters, "count": len(theaters)})
}

// ListShowtimesForMovie returns upcoming showtimes for a movie grouped by
// theater. Optional query params: date=YYYY-MM-DD restricts to that day,
// theater_id narrows to one venue. Without a date, everything from now on is
// returned.
func (h *BrowseHandler) ListShowtimesForMovie(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid movie id"})
	}
	ctx := c.Request().Context()

	// The movie must exist; an empty schedule is not a 404.
	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return respondError(c, err)
	}

	from := time.Now().UTC()
	var until *time.Time
	if day := c.QueryParam("date"); day != "" {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "date must be YYYY-MM-DD"})
		}
		from = t
		end := t.Add(24 * time.Hour)
		until = &end
	}

	var theaterID *uint64
	if raw := c.QueryParam("theater_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid theater_id"})
		}
		theaterID = &id
	}

	groups, err := h.Showtimes.ListForMovie(ctx, movieID, from, theaterID)
	if err != nil {
		return respondError(c, err)
	}
	if until != nil {
		groups = trimAfter(groups, *until)
	}
	return c.JSON(http.StatusOK, echo.Map{"movie_id": movieID, "theaters": groups})
}

// trimAfter drops showtimes starting at or after the cutoff, then drops
// theaters left with no showtimes.
func trimAfter(groups []repository.TheaterShowtimes, cutoff time.Time) []repository.TheaterShowtimes {
	out := groups[:0]
	for _, g := range groups {
		kept := g.Showtimes[:0]
		for _, st := range g.Showtimes {
			t, err := time.Parse(time.RFC3339, st.StartsAt)
			if err == nil && t.Before(cutoff) {
				kept = append(kept, st)
			}
		}
		if len(kept) > 0 {
			g.Showtimes = kept
			out = append(out, g)
		}
	}
	return out
}

// GetShowtimeSeats returns the seat map for one showtime: grid dimensions
// plus the labels currently claimed by confirmed bookings. The seat grid is
// materialized on first access so newly created showtimes need no extra
// provisioning step.
func (h *BrowseHandler) GetShowtimeSeats(c echo.Context) error {
	showtimeID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	show, err := h.Showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return respondError(c, err)
	}

	// Materialize lazily; the plain count keeps repeat reads off the write
	// transaction path.
	count, err := h.Seats.CountForShowtime(ctx, showtimeID)
	if err != nil {
		return respondError(c, err)
	}
	if count == 0 {
		err = database.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
			_, err := h.Seats.EnsureGridTx(ctx, tx, showtimeID, repository.DefaultGridRows, repository.DefaultSeatsPerRow)
			return err
		})
		if err != nil {
			return respondError(c, err)
		}
	}

	seats, err := h.Seats.ListForShowtime(ctx, showtimeID)
	if err != nil {
		return respondError(c, err)
	}
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		labels = append(labels, s.Label())
	}

	booked, err := h.Seats.BookedLabels(ctx, showtimeID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id":     show.ID,
		"starts_at":       show.StartsAt.UTC().Format(time.RFC3339),
		"price_cents":     show.PriceCents,
		"rows":            repository.DefaultGridRows,
		"seats_per_row":   repository.DefaultSeatsPerRow,
		"total_seats":     show.TotalSeats,
		"available_seats": show.AvailableSeats,
		"seats":           labels,
		"booked":          booked,
	})
}
