package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/model"
	"github.com/Sanket4712/moviebook/internal/repository"
)

// ProfileHandler serves a user's movie lists: watchlist and favorites. Both
// lists share one storage model and differ only by kind.
type ProfileHandler struct {
	Watchlist *repository.WatchlistRepo
	Movies    *repository.MovieRepo
}

func NewProfileHandler(watchlist *repository.WatchlistRepo, movies *repository.MovieRepo) *ProfileHandler {
	return &ProfileHandler{Watchlist: watchlist, Movies: movies}
}

// AddToWatchlist marks a movie on the user's watchlist. Adding a movie that
// is already listed is a no-op.
func (h *ProfileHandler) AddToWatchlist(c echo.Context) error {
	return h.add(c, model.ListWatchlist)
}

// RemoveFromWatchlist removes a movie from the user's watchlist.
func (h *ProfileHandler) RemoveFromWatchlist(c echo.Context) error {
	return h.remove(c, model.ListWatchlist)
}

// ListWatchlist returns the user's watchlist movies.
func (h *ProfileHandler) ListWatchlist(c echo.Context) error {
	return h.list(c, model.ListWatchlist, "watchlist")
}

// AddFavorite marks a movie as a favorite.
func (h *ProfileHandler) AddFavorite(c echo.Context) error {
	return h.add(c, model.ListFavorite)
}

// RemoveFavorite unmarks a favorite movie.
func (h *ProfileHandler) RemoveFavorite(c echo.Context) error {
	return h.remove(c, model.ListFavorite)
}

// ListFavorites returns the user's favorite movies.
func (h *ProfileHandler) ListFavorites(c echo.Context) error {
	return h.list(c, model.ListFavorite, "favorites")
}

func (h *ProfileHandler) add(c echo.Context, kind string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}
	movieID, ok := pathID(c, "movie_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid movie id"})
	}
	ctx := c.Request().Context()

	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		return respondError(c, err)
	}
	if err := h.Watchlist.Add(ctx, userID, movieID, kind); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "added", "movie_id": movieID})
}

func (h *ProfileHandler) remove(c echo.Context, kind string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}
	movieID, ok := pathID(c, "movie_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation", "message": "invalid movie id"})
	}
	if err := h.Watchlist.Remove(c.Request().Context(), userID, movieID, kind); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed", "movie_id": movieID})
}

func (h *ProfileHandler) list(c echo.Context, kind, field string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth", "message": "unauthorized"})
	}
	movies, err := h.Watchlist.ListMovies(c.Request().Context(), userID, kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{field: movies, "count": len(movies)})
}
