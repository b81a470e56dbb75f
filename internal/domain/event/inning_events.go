package event

import "time"

// InningStarted event
type InningStarted struct {
	InningID     string    `json:"inning_id"`
	GameID       string    `json:"game_id"`
	InningNumber int       `json:"inning_number"`
	IsTopHalf    bool      `json:"is_top_half"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *InningStarted) EventType() string     { return "InningStarted" }
func (e *InningStarted) AggregateID() string   { return e.InningID }
func (e *InningStarted) OccurredAt() time.Time { return e.Timestamp }
func (e *InningStarted) Version() int          { return 1 }

// AtBatRecorded event
type AtBatRecorded struct {
	InningID     string    `json:"inning_id"`
	GameID       string    `json:"game_id"`
	BatterID     string    `json:"batter_id"`
	Result       string    `json:"result"`
	RunsScored   int       `json:"runs_scored"`
	Outs         int       `json:"outs"`
	InningEnded  bool      `json:"inning_ended"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *AtBatRecorded) EventType() string     { return "AtBatRecorded" }
func (e *AtBatRecorded) AggregateID() string   { return e.InningID }
func (e *AtBatRecorded) OccurredAt() time.Time { return e.Timestamp }
func (e *AtBatRecorded) Version() int          { return e.EventVersion }

// AtBatCorrected event. Compensating entry produced by undo.
type AtBatCorrected struct {
	InningID     string    `json:"inning_id"`
	GameID       string    `json:"game_id"`
	BatterID     string    `json:"batter_id"`
	OutsDelta    int       `json:"outs_delta"`
	RunsDelta    int       `json:"runs_delta"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *AtBatCorrected) EventType() string     { return "AtBatCorrected" }
func (e *AtBatCorrected) AggregateID() string   { return e.InningID }
func (e *AtBatCorrected) OccurredAt() time.Time { return e.Timestamp }
func (e *AtBatCorrected) Version() int          { return e.EventVersion }

// InningEnded event
type InningEnded struct {
	InningID     string    `json:"inning_id"`
	GameID       string    `json:"game_id"`
	InningNumber int       `json:"inning_number"`
	IsTopHalf    bool      `json:"is_top_half"`
	RunsScored   int       `json:"runs_scored"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *InningEnded) EventType() string     { return "InningEnded" }
func (e *InningEnded) AggregateID() string   { return e.InningID }
func (e *InningEnded) OccurredAt() time.Time { return e.Timestamp }
func (e *InningEnded) Version() int          { return e.EventVersion }
