package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/Sanket4712/moviebook/internal/config"
	"github.com/Sanket4712/moviebook/internal/database"
	"github.com/Sanket4712/moviebook/internal/handler"
	"github.com/Sanket4712/moviebook/internal/middleware"
	"github.com/Sanket4712/moviebook/internal/queue"
	"github.com/Sanket4712/moviebook/internal/repository"
	"github.com/Sanket4712/moviebook/internal/router"
	"github.com/Sanket4712/moviebook/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	movies := repository.NewMovieRepo(db)
	theaters := repository.NewTheaterRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	watchlist := repository.NewWatchlistRepo(db)

	publisher := queue.NewPublisher()
	bookingSvc := service.NewBookingService(database.TxRunner{DB: db}, showtimes, seats, bookings, publisher)

	// The consumer reconnects on its own; a broker outage never blocks HTTP.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	// Redis is optional. Without it the API runs uncached and unthrottled.
	var cacheMW, limiterMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
		}
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			limiterMW = middleware.NewTokenBucket(rlCfg, rdb)
		}
	}

	authH := handler.NewAuthHandler(&cfg, users, tokens)
	browseH := handler.NewBrowseHandler(db, movies, theaters, showtimes, seats)
	bookingH := handler.NewBookingHandler(bookingSvc, bookings)
	adminH := handler.NewAdminHandler(movies, theaters, showtimes, bookings)
	profileH := handler.NewProfileHandler(watchlist, movies)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, cacheMW)
	router.RegisterCustomer(e, bookingH, profileH, cfg.JWTSecret, limiterMW)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
