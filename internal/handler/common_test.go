package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanket4712/moviebook/internal/repository"
	"github.com/Sanket4712/moviebook/internal/service"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondError_Validation(t *testing.T) {
	c, rec := newTestContext(t)

	err := respondError(c, &service.ValidationError{Msg: "invalid seat labels", Labels: []string{"1A"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "validation", body["error"])
	assert.Equal(t, []any{"1A"}, body["seats"])
}

func TestRespondError_SeatsUnavailable(t *testing.T) {
	c, rec := newTestContext(t)

	err := respondError(c, &service.SeatsUnavailableError{Seats: []string{"A1", "A2"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "conflict", body["error"])
	assert.Equal(t, []any{"A1", "A2"}, body["seats"])
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrShowtimeNotFound, http.StatusNotFound},
		{repository.ErrBookingNotFound, http.StatusNotFound},
		{repository.ErrMovieNotFound, http.StatusNotFound},
		{service.ErrNotEnoughSeats, http.StatusConflict},
		{service.ErrAlreadyCancelled, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{errors.New("driver broke"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t)
		require.NoError(t, respondError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, respondError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t)

	// JWT claims decode numbers as float64.
	c.Set("user_id", float64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", "17")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c, _ := newTestContext(t)
	c.SetParamNames("id")
	c.SetParamValues("12")

	id, ok := pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(12), id)

	c.SetParamValues("0")
	_, ok = pathID(c, "id")
	assert.False(t, ok)

	c.SetParamValues("abc")
	_, ok = pathID(c, "id")
	assert.False(t, ok)
}
