package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogTransport writes notifications to the log instead of sending them.
type LogTransport struct{}

func (LogTransport) Deliver(_ context.Context, m Message) error {
	log.Info().
		Str("kind", string(m.Kind)).
		Str("to", m.To).
		Str("subject", m.Subject).
		Int("booking_id", m.Summary.BookingID).
		Msg("notification logged (not sent)")
	log.Debug().Str("body", m.Body).Msg("notification body")
	return nil
}
