package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dayeon/concert-seat-reservation/internal/booking"
	"github.com/dayeon/concert-seat-reservation/internal/config"
	"github.com/dayeon/concert-seat-reservation/internal/database"
	"github.com/dayeon/concert-seat-reservation/internal/handler"
	appmw "github.com/dayeon/concert-seat-reservation/internal/middleware"
	"github.com/dayeon/concert-seat-reservation/internal/queue"
	"github.com/dayeon/concert-seat-reservation/internal/repository"
	"github.com/dayeon/concert-seat-reservation/internal/router"
	"github.com/dayeon/concert-seat-reservation/internal/utils"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional. With no client the rate limiter and the browse
	// cache both degrade to pass-through.
	rdb := config.NewRedisClient()

	store := repository.NewStore(db)
	reservations := repository.NewReservationRepo(db)
	concerts := repository.NewConcertRepo(db)
	seats := repository.NewSeatRepo(db)

	hasher := &utils.BcryptHasher{Cost: cfg.BcryptCost}
	engine := booking.NewEngine(store, hasher)
	lookup := booking.NewLookup(reservations, hasher)

	reservationHandler := handler.NewReservationHandler(engine, lookup)
	concertHandler := handler.NewConcertHandler(concerts)
	seatHandler := handler.NewSeatHandler(seats, concerts)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	ratelimit := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterBrowse(e, concertHandler, seatHandler, cache)
	router.RegisterReservations(e, reservationHandler, ratelimit)

	// Consume reservation events in the background and append them to the
	// audit log. The consumer reconnects on broker failures.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
