// Package notify composes booking notifications and hands them to a delivery
// transport: the log, an MQTT broker, or a redis stream drained by a router.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/model"
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
	KindReminder     Kind = "reminder"
)

// BookingSummary is everything a notification about one booking needs.
type BookingSummary struct {
	BookingID    int                 `json:"booking_id"`
	Code         string              `json:"code"`
	UserID       int                 `json:"user_id"`
	UserEmail    string              `json:"user_email"`
	FieldID      int                 `json:"field_id"`
	FieldName    string              `json:"field_name"`
	FieldAddress string              `json:"field_address"`
	StartTime    time.Time           `json:"start_time"`
	Duration     int                 `json:"duration"`
	TotalAmount  float64             `json:"total_amount"`
	Status       model.BookingStatus `json:"status"`
	RefundAmount *float64            `json:"refund_amount,omitempty"`
}

// Message is a composed notification ready for delivery.
type Message struct {
	Kind    Kind           `json:"kind"`
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Body    string         `json:"body"`
	Summary BookingSummary `json:"summary"`
}

// Notifier is what the booking engine talks to. Callers treat it as fire and
// forget: an error is logged, never propagated.
type Notifier interface {
	// SendBookingConfirmation also covers cancellations, told apart by Status.
	SendBookingConfirmation(ctx context.Context, s BookingSummary) error
	SendBookingReminder(ctx context.Context, s BookingSummary) error
}

type Transport interface {
	Deliver(ctx context.Context, m Message) error
}

// Dispatcher composes messages and passes them to a Transport.
type Dispatcher struct {
	transport Transport
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(t Transport) *Dispatcher {
	return &Dispatcher{transport: t}
}

func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, s BookingSummary) error {
	kind := KindConfirmation
	if s.Status == model.BookingCancelled {
		kind = KindCancellation
	}
	return d.transport.Deliver(ctx, Compose(kind, s))
}

func (d *Dispatcher) SendBookingReminder(ctx context.Context, s BookingSummary) error {
	return d.transport.Deliver(ctx, Compose(KindReminder, s))
}

// Compose renders the subject and plain-text body for kind.
func Compose(kind Kind, s BookingSummary) Message {
	var subject, intro string
	switch kind {
	case KindCancellation:
		subject = "Booking Cancellation Confirmation"
		refund := s.TotalAmount
		if s.RefundAmount != nil {
			refund = *s.RefundAmount
		}
		intro = fmt.Sprintf("Your booking has been cancelled successfully. A refund of %.2f will be processed.", refund)
	case KindReminder:
		subject = "Reminder: Your Upcoming Booking"
		intro = "This is a reminder for your upcoming booking."
	default:
		subject = "Booking Confirmation"
		intro = "Your booking has been confirmed!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", intro)
	fmt.Fprintf(&b, "Booking ID: %d\n", s.BookingID)
	fmt.Fprintf(&b, "Field: %s\n", s.FieldName)
	if s.FieldAddress != "" {
		fmt.Fprintf(&b, "Address: %s\n", s.FieldAddress)
	}
	fmt.Fprintf(&b, "Date & Time: %s\n", s.StartTime.Format(time.RFC1123))
	fmt.Fprintf(&b, "Duration: %d minutes\n", s.Duration)
	if kind == KindConfirmation {
		fmt.Fprintf(&b, "Total Amount: %.2f\n", s.TotalAmount)
	}

	return Message{Kind: kind, To: s.UserEmail, Subject: subject, Body: b.String(), Summary: s}
}
