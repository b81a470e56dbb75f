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

// EndInningHandler closes the current half inning and either opens the
// next one or, once the regulation innings are played with a decided
// score, completes the game.
type EndInningHandler struct {
	games    repository.GameRepository
	innings  repository.InningRepository
	history  *ActionHistory
	eventBus bus.EventBus
	rules    aggregate.SoftballRules
	logger   *zap.Logger
}

func NewEndInningHandler(
	games repository.GameRepository,
	innings repository.InningRepository,
	history *ActionHistory,
	eventBus bus.EventBus,
	rules aggregate.SoftballRules,
	logger *zap.Logger,
) *EndInningHandler {
	return &EndInningHandler{
		games:    games,
		innings:  innings,
		history:  history,
		eventBus: eventBus,
		rules:    rules,
		logger:   logger,
	}
}

// Execute processes the end inning command.
func (h *EndInningHandler) Execute(ctx context.Context, cmd *EndInning) (*EndInningResult, error) {
	if cmd == nil {
		return &EndInningResult{Result: failed("command cannot be nil")}, nil
	}

	game, err := h.games.GetByID(ctx, cmd.GameID)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return &EndInningResult{Result: failed(fmt.Sprintf("game not found: %s", cmd.GameID))}, nil
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if game.IsCompleted() {
		return &EndInningResult{Result: failed("game has already ended")}, nil
	}

	inning, err := h.innings.GetCurrentByGame(ctx, cmd.GameID)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return &EndInningResult{Result: failed(fmt.Sprintf("no open inning for game: %s", cmd.GameID))}, nil
		}
		return nil, fmt.Errorf("failed to load inning: %w", err)
	}

	closedNumber := inning.InningNumber()
	closedTop := inning.IsTopHalf()
	runs := inning.Runs()

	var raised []event.DomainEvent

	// The third out flags the half inning as ended already; an explicit
	// close is only needed when the scorer ends it early.
	if !inning.HasEnded() {
		if err := inning.End(); err != nil {
			return &EndInningResult{Result: failed(err.Error())}, nil
		}
		raised = append(raised, inning.GetUncommittedEvents()...)
		if err := h.innings.Save(ctx, inning); err != nil {
			return nil, fmt.Errorf("failed to save inning: %w", err)
		}
	}

	if h.gameDecided(game, closedNumber, closedTop) {
		if err := game.Complete(); err != nil {
			return &EndInningResult{Result: failed(err.Error())}, nil
		}
		raised = append(raised, game.GetUncommittedEvents()...)
		if err := h.games.Save(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to save game: %w", err)
		}

		if err := h.eventBus.PublishBatch(ctx, raised); err != nil {
			h.logger.Warn("failed to publish inning end events", zap.Error(err))
		}

		h.history.Record(&ActionEntry{
			Name:       "EndInning",
			GameID:     cmd.GameID,
			OccurredAt: time.Now(),
		})

		return &EndInningResult{
			Result:       succeeded(),
			GameID:       cmd.GameID,
			InningNumber: closedNumber,
			IsTopHalf:    closedTop,
			RunsScored:   runs,
			GameEnded:    true,
		}, nil
	}

	if err := game.AdvanceInning(); err != nil {
		return &EndInningResult{Result: failed(err.Error())}, nil
	}
	raised = append(raised, game.GetUncommittedEvents()...)
	if err := h.games.Save(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	next, err := aggregate.NewInning(cmd.GameID, game.CurrentInning(), game.IsTopHalf())
	if err != nil {
		return nil, fmt.Errorf("failed to open next inning: %w", err)
	}
	raised = append(raised, next.GetUncommittedEvents()...)
	if err := h.innings.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save next inning: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, raised); err != nil {
		h.logger.Warn("failed to publish inning end events", zap.Error(err))
	}

	h.history.Record(&ActionEntry{
		Name:       "EndInning",
		GameID:     cmd.GameID,
		OccurredAt: time.Now(),
	})

	return &EndInningResult{
		Result:       succeeded(),
		GameID:       cmd.GameID,
		InningNumber: closedNumber,
		IsTopHalf:    closedTop,
		RunsScored:   runs,
		NextInningID: next.ID(),
	}, nil
}

// gameDecided reports whether the half inning just closed settled the
// game. A closed bottom half at or past regulation ends it unless tied;
// a closed top half ends it early when the home team already leads and
// would not need to bat.
func (h *EndInningHandler) gameDecided(game *aggregate.Game, closedNumber int, closedTop bool) bool {
	if closedNumber < h.rules.InningsPerGame {
		return false
	}
	if closedTop {
		return game.HomeScore() > game.AwayScore()
	}
	return game.HomeScore() != game.AwayScore()
}
