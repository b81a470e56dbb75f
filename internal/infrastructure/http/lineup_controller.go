package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"softball-scorebook/internal/application/command"
	"softball-scorebook/internal/application/query"
	"softball-scorebook/internal/application/services"
	"softball-scorebook/pkg/errors"
	"softball-scorebook/pkg/middleware"
	"softball-scorebook/pkg/response"
)

// LineupController handles HTTP requests for lineup operations
type LineupController struct {
	substitute     services.SubstitutePlayerUseCase
	changePosition *command.ChangePositionHandler
	getLineup      *query.GetLineupHandler
	getGameLineup  *query.GetGameLineupHandler
}

// NewLineupController creates a new lineup controller
func NewLineupController(
	substitute services.SubstitutePlayerUseCase,
	changePosition *command.ChangePositionHandler,
	getLineup *query.GetLineupHandler,
	getGameLineup *query.GetGameLineupHandler,
) *LineupController {
	return &LineupController{
		substitute:     substitute,
		changePosition: changePosition,
		getLineup:      getLineup,
		getGameLineup:  getGameLineup,
	}
}

type substitutionRequest struct {
	TeamSide         string `json:"team_side" validate:"required,oneof=HOME AWAY"`
	BattingSlot      int    `json:"batting_slot" validate:"required,min=1,max=20"`
	OutgoingPlayerID string `json:"outgoing_player_id" validate:"required"`
	IncomingPlayerID string `json:"incoming_player_id" validate:"required"`
	IncomingJersey   string `json:"incoming_jersey"`
	IncomingName     string `json:"incoming_name"`
	NewPosition      string `json:"new_position"`
	Inning           int    `json:"inning" validate:"min=0"`
	IsReentry        bool   `json:"is_reentry"`
}

// SubstitutePlayer handles POST /games/{gameID}/substitutions
func (c *LineupController) SubstitutePlayer(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		middleware.HandleError(w, r, errors.NewValidationError("Game ID is required"))
		return
	}

	var req substitutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	cmd := command.SubstitutePlayer{
		GameID:           gameID,
		TeamSide:         req.TeamSide,
		BattingSlot:      req.BattingSlot,
		OutgoingPlayerID: req.OutgoingPlayerID,
		IncomingPlayerID: req.IncomingPlayerID,
		IncomingJersey:   req.IncomingJersey,
		IncomingName:     req.IncomingName,
		NewPosition:      req.NewPosition,
		Inning:           req.Inning,
		IsReentry:        req.IsReentry,
	}

	result, err := c.substitute.Execute(r.Context(), &cmd)
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

type changePositionRequest struct {
	TeamSide    string `json:"team_side" validate:"required,oneof=HOME AWAY"`
	PlayerID    string `json:"player_id" validate:"required"`
	NewPosition string `json:"new_position" validate:"required"`
	Inning      int    `json:"inning" validate:"min=0"`
}

// ChangePosition handles POST /games/{gameID}/positions
func (c *LineupController) ChangePosition(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		middleware.HandleError(w, r, errors.NewValidationError("Game ID is required"))
		return
	}

	var req changePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError(err.Error()))
		return
	}

	cmd := command.ChangePosition{
		GameID:      gameID,
		TeamSide:    req.TeamSide,
		PlayerID:    req.PlayerID,
		NewPosition: req.NewPosition,
		Inning:      req.Inning,
	}

	result, err := c.changePosition.Execute(r.Context(), &cmd)
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

// GetLineup handles GET /lineups/{lineupID}
func (c *LineupController) GetLineup(w http.ResponseWriter, r *http.Request) {
	lineupID := chi.URLParam(r, "lineupID")

	lineup, err := c.getLineup.Handle(r.Context(), &query.GetLineup{LineupID: lineupID})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, lineup)
}

// GetGameLineup handles GET /games/{gameID}/lineups/{side}
func (c *LineupController) GetGameLineup(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	side := chi.URLParam(r, "side")

	lineup, err := c.getGameLineup.Handle(r.Context(), &query.GetGameLineup{GameID: gameID, TeamSide: side})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, lineup)
}
