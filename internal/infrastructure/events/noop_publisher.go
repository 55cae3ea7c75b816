package events

import (
	"context"

	"opsdeck/internal/ports"
)

// NoopPublisher stands in when messaging is disabled; usecases publish
// unconditionally and never branch on availability.
type NoopPublisher struct{}

var _ ports.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
