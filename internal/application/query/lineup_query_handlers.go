package query

import (
	"context"

	"softball-scorebook/internal/infrastructure/projection"
	"softball-scorebook/pkg/errors"
)

// GetLineup represents a query to get a lineup by ID
type GetLineup struct {
	LineupID string `json:"lineup_id"`
}

// GetLineupHandler handles get lineup queries
type GetLineupHandler struct {
	lineupProjection projection.LineupProjection
}

// NewGetLineupHandler creates a new get lineup handler
func NewGetLineupHandler(lineupProjection projection.LineupProjection) *GetLineupHandler {
	return &GetLineupHandler{
		lineupProjection: lineupProjection,
	}
}

// Handle processes the get lineup query
func (h *GetLineupHandler) Handle(ctx context.Context, query *GetLineup) (*projection.LineupReadModel, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}

	if query.LineupID == "" {
		return nil, errors.NewValidationError("lineup_id is required")
	}

	lineup, err := h.lineupProjection.GetByID(ctx, query.LineupID)
	if err != nil {
		return nil, errors.NewNotFoundError("lineup")
	}

	return lineup, nil
}

// GetGameLineup represents a query to get one team's lineup in a game
type GetGameLineup struct {
	GameID   string `json:"game_id"`
	TeamSide string `json:"team_side"`
}

// GetGameLineupHandler handles game lineup queries
type GetGameLineupHandler struct {
	lineupProjection projection.LineupProjection
}

// NewGetGameLineupHandler creates a new get game lineup handler
func NewGetGameLineupHandler(lineupProjection projection.LineupProjection) *GetGameLineupHandler {
	return &GetGameLineupHandler{
		lineupProjection: lineupProjection,
	}
}

// Handle processes the get game lineup query
func (h *GetGameLineupHandler) Handle(ctx context.Context, query *GetGameLineup) (*projection.LineupReadModel, error) {
	if query == nil {
		return nil, errors.NewValidationError("query cannot be nil")
	}

	if query.GameID == "" {
		return nil, errors.NewValidationError("game_id is required")
	}
	if query.TeamSide != "HOME" && query.TeamSide != "AWAY" {
		return nil, errors.NewValidationError("team_side must be HOME or AWAY")
	}

	lineup, err := h.lineupProjection.GetByGameAndSide(ctx, query.GameID, query.TeamSide)
	if err != nil {
		return nil, errors.NewNotFoundError("lineup")
	}

	return lineup, nil
}
