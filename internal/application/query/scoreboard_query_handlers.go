package query

import (
	"context"

	"softball-scorebook/internal/infrastructure/projection"
	"softball-scorebook/pkg/errors"
)

// GetScoreboard represents a query to get one game's scoreboard
type GetScoreboard struct {
	GameID string `json:"game_id"`
}

// GetScoreboardHandler handles scoreboard queries
type GetScoreboardHandler struct {
	scoreboardProjection projection.ScoreboardProjection
}

// NewGetScoreboardHandler creates a new get scoreboard handler
func NewGetScoreboardHandler(scoreboardProjection projection.ScoreboardProjection) *GetScoreboardHandler {
	return &GetScoreboardHandler{
		scoreboardProjection: scoreboardProjection,
	}
}

// Handle processes the get scoreboard query
func (h *GetScoreboardHandler) Handle(ctx context.Context, query *GetScoreboard) (*projection.ScoreboardReadModel, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}

	if query.GameID == "" {
		return nil, errors.NewValidationError("game_id is required")
	}

	scoreboard, err := h.scoreboardProjection.GetByGameID(ctx, query.GameID)
	if err != nil {
		return nil, errors.NewNotFoundError("scoreboard")
	}

	return scoreboard, nil
}

// ListActiveGames represents a query to list games in progress
type ListActiveGames struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ListActiveGamesHandler handles active game list queries
type ListActiveGamesHandler struct {
	scoreboardProjection projection.ScoreboardProjection
}

// NewListActiveGamesHandler creates a new list active games handler
func NewListActiveGamesHandler(scoreboardProjection projection.ScoreboardProjection) *ListActiveGamesHandler {
	return &ListActiveGamesHandler{
		scoreboardProjection: scoreboardProjection,
	}
}

// Handle processes the list active games query
func (h *ListActiveGamesHandler) Handle(ctx context.Context, query *ListActiveGames) ([]*projection.ScoreboardReadModel, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}

	// Set default pagination
	if query.Limit <= 0 {
		query.Limit = 10
	}
	if query.Limit > 100 {
		query.Limit = 100
	}

	scoreboards, err := h.scoreboardProjection.ListActive(ctx, query.Offset, query.Limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to list active games")
	}

	return scoreboards, nil
}
