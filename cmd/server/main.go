package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"     // .env loader for local development
	"github.com/labstack/echo/v4"  // Echo web framework

	"github.com/iliyamo/railway-seat-reservation/internal/availability"
	"github.com/iliyamo/railway-seat-reservation/internal/catalog"
	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/database"
	"github.com/iliyamo/railway-seat-reservation/internal/fare"
	"github.com/iliyamo/railway-seat-reservation/internal/handler"
	"github.com/iliyamo/railway-seat-reservation/internal/ledger"
	"github.com/iliyamo/railway-seat-reservation/internal/middleware"
	"github.com/iliyamo/railway-seat-reservation/internal/queue"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/reservation"
	"github.com/iliyamo/railway-seat-reservation/internal/router"
	queue_publisher "github.com/iliyamo/railway-seat-reservation/internal/service"
	"github.com/iliyamo/railway-seat-reservation/internal/waitlist"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	// schedule catalog from MySQL, loaded once
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	trains, err := repository.NewScheduleRepo(db).LoadAll(ctx)
	cancel()
	if err != nil {
		log.Fatalf("load schedule: %v", err)
	}
	_ = db.Close() // nothing else reads the database after the load
	cat := catalog.New(trains)
	log.Printf("schedule loaded: %d trains", len(trains))

	// engine wiring: ledger + waitlists + fares behind the coordinator
	led := ledger.New()
	wl := waitlist.NewRegistry()
	fares := fare.New()
	coord := reservation.New(led, wl, fares, cat, cfg, queue_publisher.Sink{})
	coord.OpenHorizon()
	view := availability.New(led, wl, fares, cat, cfg)

	// audit consumer keeps retrying in the background if the broker is down
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	// redis is optional: nil client disables cache and rate limiting
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}
	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limited := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAvailability(e, handler.NewAvailabilityHandler(view), cached)
	router.RegisterBooking(e, handler.NewBookingHandler(coord, view), limited)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
