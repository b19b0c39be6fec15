package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skybooking/config"
	"github.com/Domenick1991/skybooking/internal/email"
	"github.com/Domenick1991/skybooking/internal/kafka"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
)

// The worker turns booking notifications from Kafka into emails. It holds
// no booking state of its own.
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var notification kafka.BookingNotification
		if err := json.Unmarshal(msg.Value, &notification); err != nil {
			log.Printf("decode notification error: %v", err)
			return nil
		}
		return emailSender.Send(ctx, notification)
	}); err != nil && ctx.Err() == nil {
		log.Printf("consumer stopped: %v", err)
	}
}
