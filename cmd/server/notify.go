package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/config"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/logging"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/notify"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/reminder"
)

// InitTransport returns the transport that finally delivers notifications.
func InitTransport(cfg *config.Config) (notify.Transport, error) {
	if cfg.NotifyTransport != "mqtt" {
		return notify.LogTransport{}, nil
	}
	client, err := notify.ConnectMQTT(cfg.MQTTBrokerURL, cfg.MQTTClientID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("broker", cfg.MQTTBrokerURL).Msg("delivering notifications over mqtt")
	return notify.NewMQTTTransport(client), nil
}

// InitNotifier wires the notifier the engine talks to. With NOTIFY_STREAM set
// it publishes onto a redis stream and the returned router drains the stream
// into transport; otherwise the router is nil.
func InitNotifier(cfg *config.Config, rdb *redis.Client, transport notify.Transport) (notify.Notifier, *message.Router, error) {
	if !cfg.NotifyStream {
		return notify.NewDispatcher(transport), nil, nil
	}

	logger := logging.NewWatermillAdapter()
	pub, err := notify.NewRedisPublisher(rdb, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create publisher: %w", err)
	}
	sub, err := notify.NewRedisSubscriber(rdb, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create subscriber: %w", err)
	}
	router, err := notify.NewRouter(sub, transport, logger)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("topic", notify.Topic).Msg("queueing notifications on redis stream")
	return notify.NewDispatcher(notify.NewStreamTransport(pub)), router, nil
}

// InitReminders returns the scheduler and, for the redis scheduler, the
// poll loop to run until shutdown.
func InitReminders(cfg *config.Config, rdb *redis.Client, n notify.Notifier) (reminder.Scheduler, func(ctx context.Context) error) {
	if cfg.ReminderMode == "redis" {
		s := reminder.NewRedisScheduler(rdb, n, cfg.ReminderPollInterval)
		return s, s.Run
	}

	s := reminder.NewTimerScheduler(n)
	return s, func(ctx context.Context) error {
		<-ctx.Done()
		s.Stop()
		return nil
	}
}
