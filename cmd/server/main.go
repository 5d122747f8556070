package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/radio-slot-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/radio-slot-booking/internal/database"   // MySQL pool setup
	"github.com/iliyamo/radio-slot-booking/internal/gateway"    // Payment gateway client
	"github.com/iliyamo/radio-slot-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/radio-slot-booking/internal/middleware" // Cache and rate limit middleware
	"github.com/iliyamo/radio-slot-booking/internal/queue"      // Notification consumer
	"github.com/iliyamo/radio-slot-booking/internal/repository" // Data access layer
	"github.com/iliyamo/radio-slot-booking/internal/router"     // Route registration
	"github.com/iliyamo/radio-slot-booking/internal/service"    // Booking and payment services
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the public response cache
	// and makes the rate limiter fail open.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	stationRepo := repository.NewStationRepo(db)
	rjRepo := repository.NewRJRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	gw := gateway.NewClient(cfg.RazorpayKeyID, cfg.RazorpaySecret, cfg.RazorpayURL)
	notifier := service.NewAMQPNotifierFromEnv()

	bookingSvc := service.NewBookingService(bookingRepo, slotRepo)
	paymentSvc := service.NewPaymentService(db, paymentRepo, bookingRepo, slotRepo, stationRepo, gw, notifier)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(stationRepo, rjRepo, slotRepo, bookingRepo)
	advertiserHandler := handler.NewAdvertiserHandler(bookingSvc, paymentSvc)
	publicHandler := &handler.PublicHandler{StationRepo: stationRepo, RJRepo: rjRepo, SlotRepo: slotRepo}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterAdvertiser(e, advertiserHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	// Consume payment.created events in the background and append them to
	// the notification log. The consumer reconnects on its own.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
