package event

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrUnknownEventType is returned by Deserialize for event types this
// build does not know about. Callers replaying a stream should treat it
// as a forward-compatibility no-op, not a failure.
var ErrUnknownEventType = fmt.Errorf("unknown event type")

var eventFactories = map[string]func() DomainEvent{
	"TeamLineupCreated":         func() DomainEvent { return &TeamLineupCreated{} },
	"PlayerAddedToLineup":       func() DomainEvent { return &PlayerAddedToLineup{} },
	"PlayerSubstitutedIntoGame": func() DomainEvent { return &PlayerSubstitutedIntoGame{} },
	"FieldPositionChanged":      func() DomainEvent { return &FieldPositionChanged{} },
	"BatterAdvancedInLineup":    func() DomainEvent { return &BatterAdvancedInLineup{} },
	"GameStarted":               func() DomainEvent { return &GameStarted{} },
	"ScoreUpdated":              func() DomainEvent { return &ScoreUpdated{} },
	"ScoreCorrected":            func() DomainEvent { return &ScoreCorrected{} },
	"GameInningAdvanced":        func() DomainEvent { return &GameInningAdvanced{} },
	"GameCompleted":             func() DomainEvent { return &GameCompleted{} },
	"InningStarted":             func() DomainEvent { return &InningStarted{} },
	"AtBatRecorded":             func() DomainEvent { return &AtBatRecorded{} },
	"AtBatCorrected":            func() DomainEvent { return &AtBatCorrected{} },
	"InningEnded":               func() DomainEvent { return &InningEnded{} },
}

// Serialize encodes a domain event payload for storage.
func Serialize(e DomainEvent) ([]byte, error) {
	data, err := sonic.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", e.EventType(), err)
	}
	return data, nil
}

// Deserialize decodes a stored payload back into a typed domain event.
func Deserialize(eventType string, payload []byte) (DomainEvent, error) {
	factory, ok := eventFactories[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
	e := factory()
	if err := sonic.Unmarshal(payload, e); err != nil {
		return nil, fmt.Errorf("failed to deserialize %s: %w", eventType, err)
	}
	return e, nil
}
