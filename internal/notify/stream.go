package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	Topic         = "booking-notifications"
	consumerGroup = "notification-delivery"
)

// StreamTransport queues messages on a pub/sub topic. A router built by
// NewRouter drains the topic into the real transport.
type StreamTransport struct {
	publisher message.Publisher
}

func NewStreamTransport(pub message.Publisher) *StreamTransport {
	return &StreamTransport{publisher: pub}
}

func (t *StreamTransport) Deliver(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("kind", string(m.Kind))
	if err := t.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func NewRedisPublisher(rdb *redis.Client, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return redisstream.NewPublisher(redisstream.PublisherConfig{Client: rdb}, logger)
}

func NewRedisSubscriber(rdb *redis.Client, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        rdb,
		ConsumerGroup: consumerGroup,
	}, logger)
}

// NewRouter builds a router delivering every queued message through deliver.
func NewRouter(sub message.Subscriber, deliver Transport, logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)

	router.AddNoPublisherHandler(
		"deliver_notifications",
		Topic,
		sub,
		func(msg *message.Message) error {
			var m Message
			if err := json.Unmarshal(msg.Payload, &m); err != nil {
				// a malformed payload will never decode; drop it
				logger.Error("dropping undecodable notification", err, watermill.LogFields{"message_uuid": msg.UUID})
				return nil
			}
			return deliver.Deliver(msg.Context(), m)
		},
	)
	return router, nil
}
