package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/metrics"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/notify"
)

var ErrStopped = errors.New("reminder: scheduler stopped")

// TimerScheduler fires reminders from in-process timers. Pending reminders
// are lost when the process exits.
type TimerScheduler struct {
	notifier notify.Notifier

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

var _ Scheduler = (*TimerScheduler)(nil)

func NewTimerScheduler(n notify.Notifier) *TimerScheduler {
	return &TimerScheduler{notifier: n, timers: map[string]*time.Timer{}}
}

func (s *TimerScheduler) ScheduleAt(_ context.Context, at time.Time, r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}

	s.timers[r.ID] = time.AfterFunc(time.Until(at), func() {
		s.mu.Lock()
		delete(s.timers, r.ID)
		s.mu.Unlock()

		if err := s.notifier.SendBookingReminder(context.Background(), r.Summary); err != nil {
			log.Error().Err(err).Int("booking_id", r.Summary.BookingID).Msg("failed to send booking reminder")
			metrics.IncSideEffectFailure("reminder")
			return
		}
		metrics.RemindersDispatched.WithLabelValues("timer").Inc()
	})
	return nil
}

// Pending is the number of reminders not yet fired.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer and refuses new ones.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
