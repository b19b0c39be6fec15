package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingNotification is the payload handed to the notifications topic.
// The worker consumes it and drives the email sender.
type BookingNotification struct {
	Type         string    `json:"type"`
	BookingID    string    `json:"booking_id"`
	Email        string    `json:"email"`
	FlightNumber string    `json:"flight_number"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

const (
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingUpdated   = "booking_updated"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationCheckInCompleted = "check_in_completed"
	NotificationCheckInOpen      = "check_in_open"
	NotificationFlightUpdate     = "flight_status_update"
)

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("publish attempt %d failed: %v", i+1, err)

		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
