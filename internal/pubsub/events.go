// Package pubsub fans out typed events from background goroutines to the
// Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// ChangedEvent reports that watched data was written or created.
	ChangedEvent EventType = "changed"
	// RemovedEvent reports that watched data was deleted.
	RemovedEvent EventType = "removed"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
