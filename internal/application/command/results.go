package command

// Result is the uniform shape every use case returns. Logical failures
// carry Success=false and a message per problem; infrastructure faults are
// returned as ordinary Go errors alongside.
type Result struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

func (r Result) IsSuccess() bool         { return r.Success }
func (r Result) ErrorMessages() []string { return r.Errors }

func succeeded() Result {
	return Result{Success: true}
}

func failed(errs ...string) Result {
	return Result{Success: false, Errors: errs}
}

// StartNewGameResult carries the identifiers created for a new game.
type StartNewGameResult struct {
	Result
	GameID       string `json:"game_id"`
	HomeLineupID string `json:"home_lineup_id"`
	AwayLineupID string `json:"away_lineup_id"`
	InningID     string `json:"inning_id"`
}

// RecordAtBatResult reports the outcome of one plate appearance.
type RecordAtBatResult struct {
	Result
	GameID      string `json:"game_id"`
	BatterID    string `json:"batter_id"`
	RunsScored  int    `json:"runs_scored"`
	Outs        int    `json:"outs"`
	InningEnded bool   `json:"inning_ended"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	GameEnded   bool   `json:"game_ended"`
}

// SubstitutePlayerResult reports one substitution.
type SubstitutePlayerResult struct {
	Result
	GameID           string `json:"game_id"`
	LineupID         string `json:"lineup_id"`
	BattingSlot      int    `json:"batting_slot"`
	IncomingPlayerID string `json:"incoming_player_id"`
	IsReentry        bool   `json:"is_reentry"`
}

// ChangePositionResult reports one defensive move.
type ChangePositionResult struct {
	Result
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Position string `json:"position"`
}

// EndInningResult reports the closed half inning and either the newly
// opened one or, when the close decided the game, its completion.
type EndInningResult struct {
	Result
	GameID       string `json:"game_id"`
	InningNumber int    `json:"inning_number"`
	IsTopHalf    bool   `json:"is_top_half"`
	RunsScored   int    `json:"runs_scored"`
	NextInningID string `json:"next_inning_id,omitempty"`
	GameEnded    bool   `json:"game_ended"`
}

// UndoResult reports which action was undone.
type UndoResult struct {
	Result
	GameID       string `json:"game_id"`
	UndoneAction string `json:"undone_action,omitempty"`
}

// RedoResult reports which action was re-applied.
type RedoResult struct {
	Result
	GameID       string `json:"game_id"`
	RedoneAction string `json:"redone_action,omitempty"`
}
