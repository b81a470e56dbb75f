package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"softball-scorebook/internal/application/command"
	"softball-scorebook/internal/application/query"
	"softball-scorebook/internal/application/services"
	"softball-scorebook/pkg/errors"
	"softball-scorebook/pkg/middleware"
	"softball-scorebook/pkg/response"
)

var validate = validator.New()

// GameController handles HTTP requests for game operations
type GameController struct {
	workflow        *services.GameWorkflowService
	startGame       services.StartNewGameUseCase
	endInning       services.EndInningUseCase
	getScoreboard   *query.GetScoreboardHandler
	listActiveGames *query.ListActiveGamesHandler
}

// NewGameController creates a new game controller
func NewGameController(
	workflow *services.GameWorkflowService,
	startGame services.StartNewGameUseCase,
	endInning services.EndInningUseCase,
	getScoreboard *query.GetScoreboardHandler,
	listActiveGames *query.ListActiveGamesHandler,
) *GameController {
	return &GameController{
		workflow:        workflow,
		startGame:       startGame,
		endInning:       endInning,
		getScoreboard:   getScoreboard,
		listActiveGames: listActiveGames,
	}
}

type rosterEntryRequest struct {
	PlayerID      string `json:"player_id" validate:"required"`
	JerseyNumber  string `json:"jersey_number" validate:"required"`
	PlayerName    string `json:"player_name" validate:"required"`
	BattingSlot   int    `json:"batting_slot" validate:"required,min=1,max=20"`
	FieldPosition string `json:"field_position"`
}

type startGameRequest struct {
	HomeTeamName string               `json:"home_team_name" validate:"required"`
	AwayTeamName string               `json:"away_team_name" validate:"required"`
	HomeRoster   []rosterEntryRequest `json:"home_roster" validate:"required,min=1,dive"`
	AwayRoster   []rosterEntryRequest `json:"away_roster" validate:"required,min=1,dive"`
}

// StartGame handles POST /games
func (c *GameController) StartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	cmd := command.StartNewGame{
		HomeTeamName: req.HomeTeamName,
		AwayTeamName: req.AwayTeamName,
		HomeRoster:   toRosterEntries(req.HomeRoster),
		AwayRoster:   toRosterEntries(req.AwayRoster),
	}

	result, err := c.startGame.Execute(r.Context(), &cmd)
	if err != nil {
		middleware.HandleError(w, r, middleware.StorageErrorHandler(err))
		return
	}
	if !result.IsSuccess() {
		sendRuleFailure(w, r, result.ErrorMessages())
		return
	}

	response.SendCreated(w, r, result)
}

func toRosterEntries(entries []rosterEntryRequest) []command.RosterEntry {
	roster := make([]command.RosterEntry, 0, len(entries))
	for _, e := range entries {
		roster = append(roster, command.RosterEntry{
			PlayerID:      e.PlayerID,
			JerseyNumber:  e.JerseyNumber,
			PlayerName:    e.PlayerName,
			BattingSlot:   e.BattingSlot,
			FieldPosition: e.FieldPosition,
		})
	}
	return roster
}

type recordAtBatRequest struct {
	BattingSide string `json:"batting_side" validate:"required,oneof=HOME AWAY"`
	BatterID    string `json:"batter_id" validate:"required"`
	Result      string `json:"result" validate:"required"`
	RunsScored  int    `json:"runs_scored" validate:"min=0,max=4"`
	NotifyScore bool   `json:"notify_score"`
}

// RecordAtBat handles POST /games/{gameID}/at-bats
func (c *GameController) RecordAtBat(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		middleware.HandleError(w, r, errors.NewValidationError("Game ID is required"))
		return
	}

	var req recordAtBatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	result := c.workflow.CompleteAtBatSequence(r.Context(), services.CompleteAtBat{
		AtBat: command.RecordAtBat{
			GameID:      gameID,
			BattingSide: req.BattingSide,
			BatterID:    req.BatterID,
			Result:      req.Result,
			RunsScored:  req.RunsScored,
		},
		CheckInningEnd: true,
		NotifyScore:    req.NotifyScore,
	})
	if !result.IsSuccess() {
		sendRuleFailure(w, r, result.ErrorMessages())
		return
	}

	response.SendSuccess(w, r, result)
}

// EndInning handles POST /games/{gameID}/innings/end
func (c *GameController) EndInning(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		middleware.HandleError(w, r, errors.NewValidationError("Game ID is required"))
		return
	}

	result, err := c.endInning.Execute(r.Context(), &command.EndInning{GameID: gameID})
	if err != nil {
		middleware.HandleError(w, r, middleware.StorageErrorHandler(err))
		return
	}
	if !result.IsSuccess() {
		sendRuleFailure(w, r, result.ErrorMessages())
		return
	}

	response.SendSuccess(w, r, result)
}

// UndoLastAction handles POST /games/{gameID}/undo
func (c *GameController) UndoLastAction(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		middleware.HandleError(w, r, errors.NewValidationError("Game ID is required"))
		return
	}

	result, err := c.workflow.UndoLastGameAction(r.Context(), &command.UndoLastAction{GameID: gameID})
	if err != nil {
		middleware.HandleError(w, r, middleware.StorageErrorHandler(err))
		return
	}
	if !result.IsSuccess() {
		sendRuleFailure(w, r, result.ErrorMessages())
		return
	}

	response.SendSuccess(w, r, result)
}

// RedoLastAction handles POST /games/{gameID}/redo
func (c *GameController) RedoLastAction(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		middleware.HandleError(w, r, errors.NewValidationError("Game ID is required"))
		return
	}

	result, err := c.workflow.RedoLastGameAction(r.Context(), &command.RedoLastAction{GameID: gameID})
	if err != nil {
		middleware.HandleError(w, r, middleware.StorageErrorHandler(err))
		return
	}
	if !result.IsSuccess() {
		sendRuleFailure(w, r, result.ErrorMessages())
		return
	}

	response.SendSuccess(w, r, result)
}

// GetScoreboard handles GET /games/{gameID}/scoreboard
func (c *GameController) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	scoreboard, err := c.getScoreboard.Handle(r.Context(), &query.GetScoreboard{GameID: gameID})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, scoreboard)
}

// ListActiveGames handles GET /games
func (c *GameController) ListActiveGames(w http.ResponseWriter, r *http.Request) {
	offset := 0
	limit := 10

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil {
			offset = parsed
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	games, err := c.listActiveGames.Handle(r.Context(), &query.ListActiveGames{Offset: offset, Limit: limit})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	responseData := map[string]interface{}{
		"games":  games,
		"offset": offset,
		"limit":  limit,
		"count":  len(games),
	}

	response.SendSuccess(w, r, responseData)
}

// sendRuleFailure reports a rejected command with its rule messages.
func sendRuleFailure(w http.ResponseWriter, r *http.Request, messages []string) {
	details := make([]map[string]string, 0, len(messages))
	for _, msg := range messages {
		details = append(details, map[string]string{"message": msg})
	}
	response.SendErrorWithDetails(w, r, http.StatusUnprocessableEntity, "RULE_VIOLATION",
		"Operation rejected by game rules", details)
}
