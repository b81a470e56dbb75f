package event

import "time"

// TeamLineupCreated event
type TeamLineupCreated struct {
	TeamLineupID string    `json:"team_lineup_id"`
	GameID       string    `json:"game_id"`
	TeamName     string    `json:"team_name"`
	TeamSide     string    `json:"team_side"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *TeamLineupCreated) EventType() string     { return "TeamLineupCreated" }
func (e *TeamLineupCreated) AggregateID() string   { return e.TeamLineupID }
func (e *TeamLineupCreated) OccurredAt() time.Time { return e.Timestamp }
func (e *TeamLineupCreated) Version() int          { return 1 }

// PlayerAddedToLineup event
type PlayerAddedToLineup struct {
	TeamLineupID  string    `json:"team_lineup_id"`
	PlayerID      string    `json:"player_id"`
	JerseyNumber  string    `json:"jersey_number"`
	PlayerName    string    `json:"player_name"`
	BattingSlot   int       `json:"batting_slot"`
	FieldPosition string    `json:"field_position"`
	EventVersion  int       `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e *PlayerAddedToLineup) EventType() string     { return "PlayerAddedToLineup" }
func (e *PlayerAddedToLineup) AggregateID() string   { return e.TeamLineupID }
func (e *PlayerAddedToLineup) OccurredAt() time.Time { return e.Timestamp }
func (e *PlayerAddedToLineup) Version() int          { return e.EventVersion }

// PlayerSubstitutedIntoGame event. Carries only the identifiers; the
// incoming player's jersey and name live on the participation record, not
// the event stream.
type PlayerSubstitutedIntoGame struct {
	TeamLineupID     string    `json:"team_lineup_id"`
	BattingSlot      int       `json:"batting_slot"`
	OutgoingPlayerID string    `json:"outgoing_player_id"`
	IncomingPlayerID string    `json:"incoming_player_id"`
	FieldPosition    string    `json:"field_position"`
	Inning           int       `json:"inning"`
	IsReentry        bool      `json:"is_reentry"`
	EventVersion     int       `json:"version"`
	Timestamp        time.Time `json:"timestamp"`
}

func (e *PlayerSubstitutedIntoGame) EventType() string     { return "PlayerSubstitutedIntoGame" }
func (e *PlayerSubstitutedIntoGame) AggregateID() string   { return e.TeamLineupID }
func (e *PlayerSubstitutedIntoGame) OccurredAt() time.Time { return e.Timestamp }
func (e *PlayerSubstitutedIntoGame) Version() int          { return e.EventVersion }

// FieldPositionChanged event
type FieldPositionChanged struct {
	TeamLineupID string    `json:"team_lineup_id"`
	PlayerID     string    `json:"player_id"`
	FromPosition string    `json:"from_position"`
	ToPosition   string    `json:"to_position"`
	Inning       int       `json:"inning"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *FieldPositionChanged) EventType() string     { return "FieldPositionChanged" }
func (e *FieldPositionChanged) AggregateID() string   { return e.TeamLineupID }
func (e *FieldPositionChanged) OccurredAt() time.Time { return e.Timestamp }
func (e *FieldPositionChanged) Version() int          { return e.EventVersion }

// BatterAdvancedInLineup event
type BatterAdvancedInLineup struct {
	TeamLineupID string    `json:"team_lineup_id"`
	PreviousSlot int       `json:"previous_slot"`
	NewSlot      int       `json:"new_slot"`
	TeamSide     string    `json:"team_side"`
	EventVersion int       `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func (e *BatterAdvancedInLineup) EventType() string     { return "BatterAdvancedInLineup" }
func (e *BatterAdvancedInLineup) AggregateID() string   { return e.TeamLineupID }
func (e *BatterAdvancedInLineup) OccurredAt() time.Time { return e.Timestamp }
func (e *BatterAdvancedInLineup) Version() int          { return e.EventVersion }
