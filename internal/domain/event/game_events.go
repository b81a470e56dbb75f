package event

import "time"

// GameStarted event
type GameStarted struct {
	GameID       string    `json:"game_id"`
	HomeTeamName string    `json:"home_team_name"`
	AwayTeamName string    `json:"away_team_name"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *GameStarted) EventType() string     { return "GameStarted" }
func (e *GameStarted) AggregateID() string   { return e.GameID }
func (e *GameStarted) OccurredAt() time.Time { return e.Timestamp }
func (e *GameStarted) Version() int          { return 1 }

// ScoreUpdated event
type ScoreUpdated struct {
	GameID       string    `json:"game_id"`
	TeamSide     string    `json:"team_side"`
	RunsScored   int       `json:"runs_scored"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *ScoreUpdated) EventType() string     { return "ScoreUpdated" }
func (e *ScoreUpdated) AggregateID() string   { return e.GameID }
func (e *ScoreUpdated) OccurredAt() time.Time { return e.Timestamp }
func (e *ScoreUpdated) Version() int          { return e.EventVersion }

// ScoreCorrected event. Emitted by undo: an explicit compensating entry,
// never a removal of prior events.
type ScoreCorrected struct {
	GameID       string    `json:"game_id"`
	TeamSide     string    `json:"team_side"`
	RunsDelta    int       `json:"runs_delta"`
	Reason       string    `json:"reason"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *ScoreCorrected) EventType() string     { return "ScoreCorrected" }
func (e *ScoreCorrected) AggregateID() string   { return e.GameID }
func (e *ScoreCorrected) OccurredAt() time.Time { return e.Timestamp }
func (e *ScoreCorrected) Version() int          { return e.EventVersion }

// GameInningAdvanced event
type GameInningAdvanced struct {
	GameID       string    `json:"game_id"`
	Inning       int       `json:"inning"`
	IsTopHalf    bool      `json:"is_top_half"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *GameInningAdvanced) EventType() string     { return "GameInningAdvanced" }
func (e *GameInningAdvanced) AggregateID() string   { return e.GameID }
func (e *GameInningAdvanced) OccurredAt() time.Time { return e.Timestamp }
func (e *GameInningAdvanced) Version() int          { return e.EventVersion }

// GameCompleted event
type GameCompleted struct {
	GameID       string    `json:"game_id"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *GameCompleted) EventType() string     { return "GameCompleted" }
func (e *GameCompleted) AggregateID() string   { return e.GameID }
func (e *GameCompleted) OccurredAt() time.Time { return e.Timestamp }
func (e *GameCompleted) Version() int          { return e.EventVersion }
