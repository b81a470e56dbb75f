package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/domain/repository"
	"softball-scorebook/internal/infrastructure/bus"

	"go.uber.org/zap"
)

// RecordAtBatHandler records a plate appearance against the current half
// inning, credits runs to the game record and advances the batting order.
// Each successful at-bat registers an undo entry that compensates the
// recorded outs and runs through correction events.
type RecordAtBatHandler struct {
	games    repository.GameRepository
	lineups  repository.TeamLineupRepository
	innings  repository.InningRepository
	history  *ActionHistory
	eventBus bus.EventBus
	logger   *zap.Logger
}

func NewRecordAtBatHandler(
	games repository.GameRepository,
	lineups repository.TeamLineupRepository,
	innings repository.InningRepository,
	history *ActionHistory,
	eventBus bus.EventBus,
	logger *zap.Logger,
) *RecordAtBatHandler {
	return &RecordAtBatHandler{
		games:    games,
		lineups:  lineups,
		innings:  innings,
		history:  history,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Execute processes the record at-bat command.
func (h *RecordAtBatHandler) Execute(ctx context.Context, cmd *RecordAtBat) (*RecordAtBatResult, error) {
	if cmd == nil {
		return &RecordAtBatResult{Result: failed("command cannot be nil")}, nil
	}
	side := aggregate.TeamSide(cmd.BattingSide)
	if side != aggregate.TeamSideHome && side != aggregate.TeamSideAway {
		return &RecordAtBatResult{Result: failed(fmt.Sprintf("invalid batting side: %s", cmd.BattingSide))}, nil
	}
	if cmd.BatterID == "" {
		return &RecordAtBatResult{Result: failed("batter_id is required")}, nil
	}

	result, err := h.apply(ctx, cmd)
	if err != nil || !result.IsSuccess() {
		return result, err
	}

	outsDelta := 0
	if aggregate.AtBatResult(cmd.Result).IsOut() {
		outsDelta = 1
	}
	h.history.Record(&ActionEntry{
		Name:       "RecordAtBat",
		GameID:     cmd.GameID,
		OccurredAt: time.Now(),
		Undo:       h.undoFunc(cmd, outsDelta),
		Redo: func(ctx context.Context) error {
			redone, err := h.apply(ctx, cmd)
			if err != nil {
				return err
			}
			if !redone.IsSuccess() {
				return fmt.Errorf("redo failed: %v", redone.Errors)
			}
			return nil
		},
	})

	return result, nil
}

// apply performs the at-bat without touching the action history, so redo
// can share it with the first execution.
func (h *RecordAtBatHandler) apply(ctx context.Context, cmd *RecordAtBat) (*RecordAtBatResult, error) {
	side := aggregate.TeamSide(cmd.BattingSide)

	game, err := h.games.GetByID(ctx, cmd.GameID)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return &RecordAtBatResult{Result: failed(fmt.Sprintf("game not found: %s", cmd.GameID))}, nil
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if game.IsCompleted() {
		return &RecordAtBatResult{Result: failed("game has already ended")}, nil
	}

	inning, err := h.innings.GetCurrentByGame(ctx, cmd.GameID)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return &RecordAtBatResult{Result: failed(fmt.Sprintf("no open inning for game: %s", cmd.GameID))}, nil
		}
		return nil, fmt.Errorf("failed to load inning: %w", err)
	}

	if err := inning.RecordAtBat(aggregate.PlayerID(cmd.BatterID), aggregate.AtBatResult(cmd.Result), cmd.RunsScored); err != nil {
		return &RecordAtBatResult{Result: failed(err.Error())}, nil
	}

	var raised []event.DomainEvent
	raised = append(raised, inning.GetUncommittedEvents()...)
	if err := h.innings.Save(ctx, inning); err != nil {
		return nil, fmt.Errorf("failed to save inning: %w", err)
	}

	if cmd.RunsScored > 0 {
		if err := game.AddRuns(side, cmd.RunsScored); err != nil {
			return &RecordAtBatResult{Result: failed(err.Error())}, nil
		}
		raised = append(raised, game.GetUncommittedEvents()...)
		if err := h.games.Save(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to save game: %w", err)
		}
	}

	h.advanceBatter(ctx, cmd.GameID, side, &raised)
	h.publish(ctx, raised...)

	return &RecordAtBatResult{
		Result:      succeeded(),
		GameID:      cmd.GameID,
		BatterID:    cmd.BatterID,
		RunsScored:  cmd.RunsScored,
		Outs:        inning.Outs(),
		InningEnded: inning.HasEnded(),
		HomeScore:   game.HomeScore(),
		AwayScore:   game.AwayScore(),
		GameEnded:   game.IsCompleted(),
	}, nil
}

func (h *RecordAtBatHandler) undoFunc(cmd *RecordAtBat, outsDelta int) func(ctx context.Context) error {
	side := aggregate.TeamSide(cmd.BattingSide)
	return func(ctx context.Context) error {
		inning, err := h.innings.GetCurrentByGame(ctx, cmd.GameID)
		if err != nil {
			return fmt.Errorf("failed to load inning for undo: %w", err)
		}
		if err := inning.CorrectAtBat(aggregate.PlayerID(cmd.BatterID), -outsDelta, -cmd.RunsScored); err != nil {
			return err
		}
		raised := append([]event.DomainEvent(nil), inning.GetUncommittedEvents()...)
		if err := h.innings.Save(ctx, inning); err != nil {
			return fmt.Errorf("failed to save inning correction: %w", err)
		}

		if cmd.RunsScored > 0 {
			game, err := h.games.GetByID(ctx, cmd.GameID)
			if err != nil {
				return fmt.Errorf("failed to load game for undo: %w", err)
			}
			if err := game.CorrectScore(side, -cmd.RunsScored, "undo at-bat"); err != nil {
				return err
			}
			raised = append(raised, game.GetUncommittedEvents()...)
			if err := h.games.Save(ctx, game); err != nil {
				return fmt.Errorf("failed to save score correction: %w", err)
			}
		}

		h.publish(ctx, raised...)
		return nil
	}
}

// advanceBatter is best-effort: a missing lineup is logged, never fatal
// to the at-bat itself.
func (h *RecordAtBatHandler) advanceBatter(ctx context.Context, gameID string, side aggregate.TeamSide, raised *[]event.DomainEvent) {
	lineup, err := h.lineups.GetByGameAndSide(ctx, gameID, side)
	if err != nil {
		h.logger.Warn("failed to load lineup to advance batter",
			zap.String("game_id", gameID), zap.Error(err))
		return
	}
	advanced, err := lineup.AdvanceBatter(len(lineup.GetActiveLineup()))
	if err != nil {
		h.logger.Warn("failed to advance batter", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	*raised = append(*raised, advanced.GetUncommittedEvents()...)
	if err := h.lineups.Save(ctx, advanced); err != nil {
		h.logger.Warn("failed to save advanced lineup", zap.String("game_id", gameID), zap.Error(err))
	}
}

func (h *RecordAtBatHandler) publish(ctx context.Context, events ...event.DomainEvent) {
	if err := h.eventBus.PublishBatch(ctx, events); err != nil {
		h.logger.Warn("failed to publish at-bat events", zap.Error(err))
	}
}
