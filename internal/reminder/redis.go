package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/metrics"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/notify"
)

const (
	DefaultKey = "fieldbook:reminders"
	batchSize  = 100
)

// RedisScheduler keeps reminders in a sorted set scored by due time in unix
// milliseconds, so they survive restarts. Several pollers may share the key:
// a reminder is delivered by whichever poller removes it.
type RedisScheduler struct {
	rdb      *redis.Client
	key      string
	notifier notify.Notifier
	interval time.Duration
}

var _ Scheduler = (*RedisScheduler)(nil)

func NewRedisScheduler(rdb *redis.Client, n notify.Notifier, interval time.Duration) *RedisScheduler {
	return &RedisScheduler{rdb: rdb, key: DefaultKey, notifier: n, interval: interval}
}

func (s *RedisScheduler) ScheduleAt(ctx context.Context, at time.Time, r Reminder) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}
	err = s.rdb.ZAdd(ctx, s.key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: payload,
	}).Err()
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	return nil
}

// Run polls for due reminders until ctx is done.
func (s *RedisScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := s.DispatchDue(ctx, now); err != nil {
				log.Error().Err(err).Msg("failed to dispatch due reminders")
			}
		}
	}
}

// DispatchDue delivers every reminder due at or before now and returns how
// many this caller claimed.
func (s *RedisScheduler) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	members, err := s.rdb.ZRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: batchSize,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("load due reminders: %w", err)
	}

	claimed := 0
	for _, member := range members {
		removed, err := s.rdb.ZRem(ctx, s.key, member).Result()
		if err != nil {
			return claimed, fmt.Errorf("claim reminder: %w", err)
		}
		if removed == 0 {
			// another poller got it
			continue
		}
		claimed++

		var r Reminder
		if err := json.Unmarshal([]byte(member), &r); err != nil {
			log.Error().Err(err).Msg("dropping undecodable reminder")
			continue
		}
		if err := s.notifier.SendBookingReminder(ctx, r.Summary); err != nil {
			log.Error().Err(err).Int("booking_id", r.Summary.BookingID).Msg("failed to send booking reminder")
			metrics.IncSideEffectFailure("reminder")
			continue
		}
		metrics.RemindersDispatched.WithLabelValues("redis").Inc()
	}
	return claimed, nil
}
