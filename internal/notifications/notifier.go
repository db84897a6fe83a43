package notifications

import "context"

// Notifier delivers booking decision notices. Delivery is best effort:
// callers log failures and carry on, a lost notice never rolls back a
// decision.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// NoopNotifier discards every notice. Used when no broker is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	return nil
}
