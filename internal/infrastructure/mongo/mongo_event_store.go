package mongo

import (
	"context"
	"errors"
	"fmt"

	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// eventDocument is one stream entry as stored in MongoDB. Payloads are
// JSON-serialized domain events.
type eventDocument struct {
	StreamID      string `bson:"stream_id"`
	AggregateType string `bson:"aggregate_type"`
	EventType     string `bson:"event_type"`
	Sequence      int    `bson:"sequence"`
	Payload       []byte `bson:"payload"`
}

// MongoEventStore implements the event store contract on a single events
// collection. A unique index on (stream_id, sequence) backs the
// optimistic-concurrency check: concurrent appenders race to the same
// sequence number and the loser gets a duplicate-key error.
type MongoEventStore struct {
	collection *mongo.Collection
}

func NewMongoEventStore(database *mongo.Database) (*MongoEventStore, error) {
	collection := database.Collection("events")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "stream_id", Value: 1}, {Key: "sequence", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		return nil, fmt.Errorf("failed to create event stream index: %w", err)
	}

	return &MongoEventStore{collection: collection}, nil
}

// SaveEvents appends events to a stream with an expected-version check.
func (s *MongoEventStore) SaveEvents(ctx context.Context, streamID, aggregateType string, events []event.DomainEvent, expectedVersion int) error {
	if len(events) == 0 {
		return nil
	}

	count, err := s.collection.CountDocuments(ctx, bson.M{"stream_id": streamID})
	if err != nil {
		return fmt.Errorf("failed to read stream %s: %w", streamID, err)
	}
	if int(count) != expectedVersion {
		return fmt.Errorf("%w: stream=%s expected=%d actual=%d",
			repository.ErrVersionConflict, streamID, expectedVersion, count)
	}

	docs := make([]interface{}, 0, len(events))
	for i, e := range events {
		payload, err := event.Serialize(e)
		if err != nil {
			return err
		}
		docs = append(docs, eventDocument{
			StreamID:      streamID,
			AggregateType: aggregateType,
			EventType:     e.EventType(),
			Sequence:      expectedVersion + i + 1,
			Payload:       payload,
		})
	}

	if _, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: stream=%s expected=%d", repository.ErrVersionConflict, streamID, expectedVersion)
		}
		return fmt.Errorf("failed to append to stream %s: %w", streamID, err)
	}
	return nil
}

// GetEvents returns the deserialized events of a stream in order. Events
// of a type this build does not know are skipped.
func (s *MongoEventStore) GetEvents(ctx context.Context, streamID string) ([]event.DomainEvent, error) {
	stored, err := s.GetStoredEvents(ctx, streamID)
	if err != nil {
		return nil, err
	}

	events := make([]event.DomainEvent, 0, len(stored))
	for _, doc := range stored {
		e, err := event.Deserialize(doc.EventType, doc.Payload)
		if errors.Is(err, event.ErrUnknownEventType) {
			continue
		}
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// GetStoredEvents returns the raw stored entries of a stream in order.
func (s *MongoEventStore) GetStoredEvents(ctx context.Context, streamID string) ([]repository.StoredEvent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"stream_id": streamID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %s: %w", streamID, err)
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode stream %s: %w", streamID, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrStreamNotFound, streamID)
	}

	stored := make([]repository.StoredEvent, 0, len(docs))
	for _, doc := range docs {
		stored = append(stored, repository.StoredEvent{
			StreamID:      doc.StreamID,
			AggregateType: doc.AggregateType,
			EventType:     doc.EventType,
			Sequence:      doc.Sequence,
			Payload:       doc.Payload,
		})
	}
	return stored, nil
}

// StreamIDsByType returns the distinct stream IDs holding the given
// aggregate type.
func (s *MongoEventStore) StreamIDsByType(ctx context.Context, aggregateType string) ([]string, error) {
	raw, err := s.collection.Distinct(ctx, "stream_id", bson.M{"aggregate_type": aggregateType})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s streams: %w", aggregateType, err)
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var _ repository.EventStore = (*MongoEventStore)(nil)
