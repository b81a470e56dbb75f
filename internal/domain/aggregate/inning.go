package aggregate

import (
	"fmt"
	"time"

	"softball-scorebook/internal/domain/event"

	"github.com/google/uuid"
)

const outsPerHalfInning = 3

// AtBatResult classifies the outcome of a plate appearance.
type AtBatResult string

const (
	AtBatSingle    AtBatResult = "SINGLE"
	AtBatDouble    AtBatResult = "DOUBLE"
	AtBatTriple    AtBatResult = "TRIPLE"
	AtBatHomeRun   AtBatResult = "HOME_RUN"
	AtBatWalk      AtBatResult = "WALK"
	AtBatSacrifice AtBatResult = "SACRIFICE"
	AtBatOut       AtBatResult = "OUT"
	AtBatStrikeout AtBatResult = "STRIKEOUT"
)

// AllAtBatResults enumerates every valid at-bat result value.
var AllAtBatResults = map[AtBatResult]struct{}{
	AtBatSingle:    {},
	AtBatDouble:    {},
	AtBatTriple:    {},
	AtBatHomeRun:   {},
	AtBatWalk:      {},
	AtBatSacrifice: {},
	AtBatOut:       {},
	AtBatStrikeout: {},
}

// IsOut reports whether the at-bat result retires the batter.
func (r AtBatResult) IsOut() bool {
	return r == AtBatOut || r == AtBatStrikeout || r == AtBatSacrifice
}

// Inning tracks outs and runs for one half inning of a game.
type Inning struct {
	id           string
	gameID       string
	inningNumber int
	isTopHalf    bool
	outs         int
	runs         int
	ended        bool
	version      int

	uncommittedEvents []event.DomainEvent
}

// NewInning opens a half inning for a game.
func NewInning(gameID string, inningNumber int, isTopHalf bool) (*Inning, error) {
	if gameID == "" {
		return nil, fmt.Errorf("gameID cannot be empty")
	}
	if inningNumber < 1 {
		return nil, fmt.Errorf("%w: inning=%d", ErrInvalidInning, inningNumber)
	}

	in := &Inning{}
	in.raiseEvent(&event.InningStarted{
		InningID:     uuid.New().String(),
		GameID:       gameID,
		InningNumber: inningNumber,
		IsTopHalf:    isTopHalf,
		Timestamp:    time.Now(),
	})
	return in, nil
}

// NewInningFromHistory rebuilds a half inning by replaying its events.
func NewInningFromHistory(events []event.DomainEvent) (*Inning, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("no events provided")
	}
	in := &Inning{}
	for _, e := range events {
		if err := in.applyEvent(e); err != nil {
			return nil, fmt.Errorf("failed to apply event: %w", err)
		}
	}
	return in, nil
}

// RecordAtBat records one plate appearance. The third out flags the half
// inning as ended.
func (in *Inning) RecordAtBat(batterID PlayerID, result AtBatResult, runsScored int) error {
	if in.ended {
		return fmt.Errorf("half inning %d has already ended", in.inningNumber)
	}
	if _, ok := AllAtBatResults[result]; !ok {
		return fmt.Errorf("unknown at-bat result: %s", result)
	}
	if runsScored < 0 {
		return fmt.Errorf("runsScored cannot be negative: %d", runsScored)
	}

	outs := in.outs
	if result.IsOut() {
		outs++
	}
	in.raiseEvent(&event.AtBatRecorded{
		InningID:     in.id,
		GameID:       in.gameID,
		BatterID:     string(batterID),
		Result:       string(result),
		RunsScored:   runsScored,
		Outs:         outs,
		InningEnded:  outs >= outsPerHalfInning,
		EventVersion: in.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

// CorrectAtBat applies signed out/run corrections, compensating a
// previously recorded at-bat. The half inning must still be open or the
// correction must reopen it.
func (in *Inning) CorrectAtBat(batterID PlayerID, outsDelta, runsDelta int) error {
	if in.outs+outsDelta < 0 {
		return fmt.Errorf("correction would make outs negative")
	}
	if in.runs+runsDelta < 0 {
		return fmt.Errorf("correction would make runs negative")
	}
	in.raiseEvent(&event.AtBatCorrected{
		InningID:     in.id,
		GameID:       in.gameID,
		BatterID:     string(batterID),
		OutsDelta:    outsDelta,
		RunsDelta:    runsDelta,
		EventVersion: in.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

// End closes the half inning explicitly.
func (in *Inning) End() error {
	if in.ended {
		return fmt.Errorf("half inning %d has already ended", in.inningNumber)
	}
	in.raiseEvent(&event.InningEnded{
		InningID:     in.id,
		GameID:       in.gameID,
		InningNumber: in.inningNumber,
		IsTopHalf:    in.isTopHalf,
		RunsScored:   in.runs,
		EventVersion: in.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

func (in *Inning) raiseEvent(ev event.DomainEvent) {
	in.uncommittedEvents = append(in.uncommittedEvents, ev)
	_ = in.applyEvent(ev)
}

func (in *Inning) applyEvent(ev event.DomainEvent) error {
	switch e := ev.(type) {
	case *event.InningStarted:
		in.id = e.InningID
		in.gameID = e.GameID
		in.inningNumber = e.InningNumber
		in.isTopHalf = e.IsTopHalf
		in.version = 1

	case *event.AtBatRecorded:
		in.outs = e.Outs
		in.runs += e.RunsScored
		if e.InningEnded {
			in.ended = true
		}
		in.version++

	case *event.AtBatCorrected:
		in.outs += e.OutsDelta
		in.runs += e.RunsDelta
		if in.outs < outsPerHalfInning {
			in.ended = false
		}
		in.version++

	case *event.InningEnded:
		in.ended = true
		in.version++

	default:
		// Unknown events are skipped for forward compatibility.
	}

	return nil
}

func (in *Inning) ID() string        { return in.id }
func (in *Inning) GameID() string    { return in.gameID }
func (in *Inning) InningNumber() int { return in.inningNumber }
func (in *Inning) IsTopHalf() bool   { return in.isTopHalf }
func (in *Inning) Outs() int         { return in.outs }
func (in *Inning) Runs() int         { return in.runs }
func (in *Inning) HasEnded() bool    { return in.ended }
func (in *Inning) Version() int      { return in.version }

func (in *Inning) GetUncommittedEvents() []event.DomainEvent {
	return in.uncommittedEvents
}

func (in *Inning) MarkEventsAsCommitted() {
	in.uncommittedEvents = nil
}
