package repository

import (
	"context"
	"errors"

	"softball-scorebook/internal/domain/event"
)

// ErrVersionConflict is returned by SaveEvents when the stream has moved
// past the expected version. The aggregate never retries this itself; any
// retry policy lives in the workflow layer.
var ErrVersionConflict = errors.New("concurrency conflict: version mismatch")

// ErrStreamNotFound is returned when a stream has no events.
var ErrStreamNotFound = errors.New("event stream not found")

// StoredEvent is one persisted entry of an event stream.
type StoredEvent struct {
	StreamID      string
	AggregateType string
	EventType     string
	Sequence      int
	Payload       []byte
}

// EventStore is the append-only per-stream log every aggregate persists
// through. Appends enforce optimistic concurrency via expectedVersion.
// StreamIDsByType lets repositories rebuild their lookup indexes from a
// durable store after a restart.
type EventStore interface {
	SaveEvents(ctx context.Context, streamID, aggregateType string, events []event.DomainEvent, expectedVersion int) error
	GetEvents(ctx context.Context, streamID string) ([]event.DomainEvent, error)
	GetStoredEvents(ctx context.Context, streamID string) ([]StoredEvent, error)
	StreamIDsByType(ctx context.Context, aggregateType string) ([]string, error)
}
