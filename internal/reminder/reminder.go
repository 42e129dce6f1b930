// Package reminder schedules booking reminders for later delivery.
package reminder

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/notify"
)

// Reminder is the payload delivered at its due time.
type Reminder struct {
	ID      string                `json:"id"`
	Summary notify.BookingSummary `json:"summary"`
}

// Scheduler arranges for r to be handed to the notifier at the given instant.
type Scheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, r Reminder) error
}
