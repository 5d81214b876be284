// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/handler"
	"github.com/Sanket4712/moviebook/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and no
// feature grouping. Currently that is only the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the session lifecycle under /v1/auth plus the
// authenticated /v1/me profile endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse surface. The optional
// cache middleware (nil when Redis is absent) fronts these read-heavy
// endpoints.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/movies", b.ListMovies)
	g.GET("/movies/:id", b.GetMovie)
	g.GET("/movies/:id/showtimes", b.ListShowtimesForMovie)
	g.GET("/theaters", b.ListTheaters)
	g.GET("/showtimes/:id/seats", b.GetShowtimeSeats)
}

// RegisterCustomer registers the booking and profile-list surface. Booking
// writes additionally sit behind the rate limiter when one is configured.
func RegisterCustomer(e *echo.Echo, bk *handler.BookingHandler, p *handler.ProfileHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))

	bookings := g.Group("/bookings")
	if limiter != nil {
		bookings.Use(limiter)
	}
	bookings.POST("", bk.CreateBooking)
	bookings.DELETE("/:id", bk.CancelBooking)
	bookings.GET("/:id", bk.GetBooking)
	bookings.GET("/:id/qr", bk.BookingQR)

	g.GET("/my-bookings", bk.ListMyBookings)

	g.GET("/watchlist", p.ListWatchlist)
	g.PUT("/watchlist/:movie_id", p.AddToWatchlist)
	g.DELETE("/watchlist/:movie_id", p.RemoveFromWatchlist)
	g.GET("/favorites", p.ListFavorites)
	g.PUT("/favorites/:movie_id", p.AddFavorite)
	g.DELETE("/favorites/:movie_id", p.RemoveFavorite)
}

// RegisterAdmin registers catalog management under /v1/admin, restricted to
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/movies", a.CreateMovie)
	g.GET("/movies", a.ListMovies)
	g.POST("/theaters", a.CreateTheater)
	g.GET("/theaters", a.ListTheaters)
	g.POST("/showtimes", a.CreateShowtime)
	g.PATCH("/showtimes/:id/price", a.UpdateShowtimePrice)
	g.DELETE("/showtimes/:id", a.DeleteShowtime)
	g.GET("/showtimes/:id/bookings", a.ListShowtimeBookings)
	g.GET("/bookings/code/:code", a.CheckInBooking)
}
