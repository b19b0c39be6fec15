package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/skybooking/internal/kafka"
)

// Sender is the notification collaborator. Real delivery is out of scope,
// so it only logs what would have been sent.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, n kafka.BookingNotification) error {
	switch n.Type {
	case kafka.NotificationBookingConfirmed:
		fmt.Printf("send confirmation email to %s for booking %s\n", n.Email, n.BookingID)
	case kafka.NotificationBookingCancelled:
		fmt.Printf("send cancellation email to %s for booking %s\n", n.Email, n.BookingID)
	case kafka.NotificationCheckInCompleted:
		fmt.Printf("send check-in confirmation email to %s for booking %s\n", n.Email, n.BookingID)
	case kafka.NotificationFlightUpdate:
		fmt.Printf("send flight %s status update email to %s for booking %s: %s\n", n.FlightNumber, n.Email, n.BookingID, n.Message)
	default:
		fmt.Printf("send %s email to %s for booking %s\n", n.Type, n.Email, n.BookingID)
	}
	return nil
}
