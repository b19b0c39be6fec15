package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skybooking/api"
	"github.com/Domenick1991/skybooking/config"
	"github.com/Domenick1991/skybooking/internal/bootstrap"
	"github.com/Domenick1991/skybooking/internal/cache"
	"github.com/Domenick1991/skybooking/internal/idp"
	"github.com/Domenick1991/skybooking/internal/kafka"
	"github.com/Domenick1991/skybooking/internal/notifier"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/booking"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searchCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Search.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository()
	statusRepo := repository.NewFlightStatusRepository()
	events := notifier.New()

	flightService := flights.NewFlightService(
		statusRepo,
		bookingRepo,
		events,
		producer,
		cfg.Kafka.NotificationsTopic,
		searchCache,
	)
	bookingService := booking.NewBookingService(
		bookingRepo,
		statusRepo,
		events,
		producer,
		cfg.Kafka.NotificationsTopic,
	)

	idpClient := idp.NewClient(cfg.IDP.BaseURL, cfg.IDP.APIKey, []byte(cfg.IDP.JWTSecret))

	// The booking store lives in this process, so the check-in sweep has
	// to run here rather than in the worker.
	sweepEvery := time.Duration(cfg.Worker.CheckInSweepMinutes) * time.Minute
	if sweepEvery == 0 {
		sweepEvery = 15 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				opened, err := bookingService.OpenCheckInWindows(ctx)
				if err != nil {
					log.Printf("check-in sweep error: %v", err)
					continue
				}
				if len(opened) > 0 {
					log.Printf("opened check-in for %d bookings", len(opened))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	demoInterval := time.Duration(cfg.Stream.DemoIntervalSeconds) * time.Second
	if demoInterval == 0 {
		demoInterval = 8 * time.Second
	}

	handlers := bootstrap.Handlers{
		Bookings: api.NewBookingHandler(bookingService, flightService, events),
		Flights:  api.NewFlightHandler(flightService, demoInterval),
		Auth:     api.NewAuthHandler(idpClient),
		IDP:      idpClient,
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
