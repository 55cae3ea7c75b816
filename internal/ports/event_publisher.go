package ports

import "context"

// EventPublisher emits domain events for downstream consumers. Implementations
// must tolerate a nil-equivalent configuration (publishing becomes a no-op)
// so usecases never need to branch on messaging availability.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
