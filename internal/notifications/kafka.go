package notifications

import (
	"context"
	"fmt"

	"rezerv/pkg/kafka"
	"rezerv/pkg/logger"
)

const eventTypeNotification = "booking.notification"

// NotificationEvent is the payload published for downstream delivery
// channels (mail, chat) to pick up.
type NotificationEvent struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier publishes notices to the notifications topic, keyed by
// recipient so notices for one user stay ordered.
type KafkaNotifier struct {
	producer messagePublisher
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		log:      log,
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	msg := kafka.NewMessage().
		WithKey(recipient).
		WithValue(NotificationEvent{
			Recipient: recipient,
			Subject:   subject,
			Body:      body,
		}).
		WithEventType(eventTypeNotification).
		WithSource("rezerv").
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	n.log.Debug("notification published", "recipient", recipient, "subject", subject)
	return nil
}
