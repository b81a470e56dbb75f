package eventstore

import (
	"context"
	"fmt"
	"sync"

	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/domain/repository"
)

type stream struct {
	aggregateType string
	events        []event.DomainEvent
}

// InMemoryEventStore keeps event streams in process memory. Appends check
// the expected version against the stream length, which is the only
// cross-process consistency mechanism the aggregates rely on.
type InMemoryEventStore struct {
	streams map[string]*stream
	mutex   sync.RWMutex
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams: make(map[string]*stream),
	}
}

// SaveEvents appends events to a stream, rejecting on version mismatch.
func (s *InMemoryEventStore) SaveEvents(ctx context.Context, streamID, aggregateType string, events []event.DomainEvent, expectedVersion int) error {
	if len(events) == 0 {
		return nil
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, ok := s.streams[streamID]
	if !ok {
		existing = &stream{aggregateType: aggregateType}
		s.streams[streamID] = existing
	}
	if existing.aggregateType != aggregateType {
		return fmt.Errorf("stream %s holds %s events, not %s", streamID, existing.aggregateType, aggregateType)
	}
	if len(existing.events) != expectedVersion {
		return fmt.Errorf("%w: stream=%s expected=%d actual=%d",
			repository.ErrVersionConflict, streamID, expectedVersion, len(existing.events))
	}
	existing.events = append(existing.events, events...)
	return nil
}

// GetEvents returns the ordered events of a stream.
func (s *InMemoryEventStore) GetEvents(ctx context.Context, streamID string) ([]event.DomainEvent, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	existing, ok := s.streams[streamID]
	if !ok || len(existing.events) == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrStreamNotFound, streamID)
	}
	return append([]event.DomainEvent(nil), existing.events...), nil
}

// GetStoredEvents returns the stream in its stored representation, with
// serialized payloads and per-stream sequence numbers.
func (s *InMemoryEventStore) GetStoredEvents(ctx context.Context, streamID string) ([]repository.StoredEvent, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	existing, ok := s.streams[streamID]
	if !ok || len(existing.events) == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrStreamNotFound, streamID)
	}
	stored := make([]repository.StoredEvent, 0, len(existing.events))
	for i, e := range existing.events {
		payload, err := event.Serialize(e)
		if err != nil {
			return nil, err
		}
		stored = append(stored, repository.StoredEvent{
			StreamID:      streamID,
			AggregateType: existing.aggregateType,
			EventType:     e.EventType(),
			Sequence:      i + 1,
			Payload:       payload,
		})
	}
	return stored, nil
}

// StreamIDsByType returns every stream holding the given aggregate type.
func (s *InMemoryEventStore) StreamIDsByType(ctx context.Context, aggregateType string) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var ids []string
	for id, st := range s.streams {
		if st.aggregateType == aggregateType {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
