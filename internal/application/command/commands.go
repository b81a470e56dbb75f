package command

// ============================================
// Game Commands
// ============================================

// RosterEntry is one starter in an initial lineup.
type RosterEntry struct {
	PlayerID      string `json:"player_id"`
	JerseyNumber  string `json:"jersey_number"`
	PlayerName    string `json:"player_name"`
	BattingSlot   int    `json:"batting_slot"`
	FieldPosition string `json:"field_position"`
}

// StartNewGame represents a command to start a game with both lineups
type StartNewGame struct {
	HomeTeamName string        `json:"home_team_name"`
	AwayTeamName string        `json:"away_team_name"`
	HomeRoster   []RosterEntry `json:"home_roster"`
	AwayRoster   []RosterEntry `json:"away_roster"`
}

// RecordAtBat represents a command to record one plate appearance
type RecordAtBat struct {
	GameID      string `json:"game_id"`
	BattingSide string `json:"batting_side"`
	BatterID    string `json:"batter_id"`
	Result      string `json:"result"`
	RunsScored  int    `json:"runs_scored"`
}

// SubstitutePlayer represents a command to replace a batting-slot occupant
type SubstitutePlayer struct {
	GameID           string `json:"game_id"`
	TeamSide         string `json:"team_side"`
	BattingSlot      int    `json:"batting_slot"`
	OutgoingPlayerID string `json:"outgoing_player_id"`
	IncomingPlayerID string `json:"incoming_player_id"`
	IncomingJersey   string `json:"incoming_jersey"`
	IncomingName     string `json:"incoming_name"`
	NewPosition      string `json:"new_position"`
	Inning           int    `json:"inning"`
	IsReentry        bool   `json:"is_reentry"`
}

// ChangePosition represents a command to move an active player defensively
type ChangePosition struct {
	GameID      string `json:"game_id"`
	TeamSide    string `json:"team_side"`
	PlayerID    string `json:"player_id"`
	NewPosition string `json:"new_position"`
	Inning      int    `json:"inning"`
}

// EndInning represents a command to close the current half inning
type EndInning struct {
	GameID string `json:"game_id"`
}

// UndoLastAction represents a command to undo the last game action
type UndoLastAction struct {
	GameID string `json:"game_id"`
}

// RedoLastAction represents a command to redo the last undone action
type RedoLastAction struct {
	GameID string `json:"game_id"`
}
