// Package handler defines the HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/repository"
	"github.com/Sanket4712/moviebook/internal/service"
)

// validate checks request DTO struct tags. A single shared instance is safe
// for concurrent use.
var validate = validator.New()

// getUserID extracts the authenticated user id stored in the context by the
// JWT middleware. JWT numeric claims decode as float64, so several source
// types are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim injected by the JWT middleware.
func getRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// respondError translates service and repository errors into structured JSON
// responses with a stable, machine-readable error kind. Unknown errors are
// treated as storage failures and reported generically.
func respondError(c echo.Context, err error) error {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		body := echo.Map{"error": "validation", "message": vErr.Msg}
		if len(vErr.Labels) > 0 {
			body["seats"] = vErr.Labels
		}
		return c.JSON(http.StatusBadRequest, body)
	}
	var sErr *service.SeatsUnavailableError
	if errors.As(err, &sErr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "conflict",
			"message": "seat already taken, please reselect",
			"seats":   sErr.Seats,
		})
	}
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrTheaterNotFound),
		errors.Is(err, repository.ErrShowtimeNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "message": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage", "message": "internal error, please retry later"})
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
