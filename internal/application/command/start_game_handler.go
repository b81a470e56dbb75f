package command

import (
	"context"
	"fmt"

	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/domain/repository"
	"softball-scorebook/internal/infrastructure/bus"

	"go.uber.org/zap"
)

// StartNewGameHandler creates the game record, both lineups and the first
// half inning in one use case.
type StartNewGameHandler struct {
	games    repository.GameRepository
	lineups  repository.TeamLineupRepository
	innings  repository.InningRepository
	eventBus bus.EventBus
	rules    aggregate.SoftballRules
	logger   *zap.Logger
}

func NewStartNewGameHandler(
	games repository.GameRepository,
	lineups repository.TeamLineupRepository,
	innings repository.InningRepository,
	eventBus bus.EventBus,
	rules aggregate.SoftballRules,
	logger *zap.Logger,
) *StartNewGameHandler {
	return &StartNewGameHandler{
		games:    games,
		lineups:  lineups,
		innings:  innings,
		eventBus: eventBus,
		rules:    rules,
		logger:   logger,
	}
}

// Execute processes the start new game command.
func (h *StartNewGameHandler) Execute(ctx context.Context, cmd *StartNewGame) (*StartNewGameResult, error) {
	if cmd == nil {
		return &StartNewGameResult{Result: failed("command cannot be nil")}, nil
	}
	if cmd.HomeTeamName == "" || cmd.AwayTeamName == "" {
		return &StartNewGameResult{Result: failed("both team names are required")}, nil
	}
	if len(cmd.HomeRoster) == 0 || len(cmd.AwayRoster) == 0 {
		return &StartNewGameResult{Result: failed("both rosters are required")}, nil
	}

	game, err := aggregate.NewGame(cmd.HomeTeamName, cmd.AwayTeamName)
	if err != nil {
		return &StartNewGameResult{Result: failed(err.Error())}, nil
	}

	homeLineup, err := h.buildLineup(game.ID(), cmd.HomeTeamName, aggregate.TeamSideHome, cmd.HomeRoster)
	if err != nil {
		return &StartNewGameResult{Result: failed(err.Error())}, nil
	}
	awayLineup, err := h.buildLineup(game.ID(), cmd.AwayTeamName, aggregate.TeamSideAway, cmd.AwayRoster)
	if err != nil {
		return &StartNewGameResult{Result: failed(err.Error())}, nil
	}

	inning, err := aggregate.NewInning(game.ID(), 1, true)
	if err != nil {
		return &StartNewGameResult{Result: failed(err.Error())}, nil
	}

	// Save clears uncommitted events, so capture them for publishing first.
	var raised []event.DomainEvent
	raised = append(raised, game.GetUncommittedEvents()...)
	raised = append(raised, homeLineup.GetUncommittedEvents()...)
	raised = append(raised, awayLineup.GetUncommittedEvents()...)
	raised = append(raised, inning.GetUncommittedEvents()...)

	if err := h.games.Save(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	if err := h.lineups.Save(ctx, homeLineup); err != nil {
		return nil, fmt.Errorf("failed to save home lineup: %w", err)
	}
	if err := h.lineups.Save(ctx, awayLineup); err != nil {
		return nil, fmt.Errorf("failed to save away lineup: %w", err)
	}
	if err := h.innings.Save(ctx, inning); err != nil {
		return nil, fmt.Errorf("failed to save first inning: %w", err)
	}

	h.publish(ctx, raised...)

	return &StartNewGameResult{
		Result:       succeeded(),
		GameID:       game.ID(),
		HomeLineupID: homeLineup.ID(),
		AwayLineupID: awayLineup.ID(),
		InningID:     inning.ID(),
	}, nil
}

func (h *StartNewGameHandler) buildLineup(gameID, teamName string, side aggregate.TeamSide, roster []RosterEntry) (*aggregate.TeamLineup, error) {
	lineup, err := aggregate.NewTeamLineup(gameID, teamName, side)
	if err != nil {
		return nil, err
	}
	for _, entry := range roster {
		lineup, err = lineup.AddPlayer(
			aggregate.PlayerID(entry.PlayerID),
			entry.JerseyNumber,
			entry.PlayerName,
			entry.BattingSlot,
			aggregate.FieldPosition(entry.FieldPosition),
			h.rules,
		)
		if err != nil {
			return nil, fmt.Errorf("%s roster: %w", side, err)
		}
	}
	return lineup, nil
}

func (h *StartNewGameHandler) publish(ctx context.Context, events ...event.DomainEvent) {
	if err := h.eventBus.PublishBatch(ctx, events); err != nil {
		h.logger.Warn("failed to publish game start events", zap.Error(err))
	}
}
