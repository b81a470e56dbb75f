package command

import (
	"context"
	"errors"
	"fmt"

	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/domain/repository"
	"softball-scorebook/internal/infrastructure/bus"

	"go.uber.org/zap"
)

// ChangePositionHandler moves an active player to another defensive
// position without touching the batting order.
type ChangePositionHandler struct {
	lineups  repository.TeamLineupRepository
	eventBus bus.EventBus
	logger   *zap.Logger
}

func NewChangePositionHandler(
	lineups repository.TeamLineupRepository,
	eventBus bus.EventBus,
	logger *zap.Logger,
) *ChangePositionHandler {
	return &ChangePositionHandler{
		lineups:  lineups,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Execute processes the change position command.
func (h *ChangePositionHandler) Execute(ctx context.Context, cmd *ChangePosition) (*ChangePositionResult, error) {
	if cmd == nil {
		return &ChangePositionResult{Result: failed("command cannot be nil")}, nil
	}
	side := aggregate.TeamSide(cmd.TeamSide)
	if side != aggregate.TeamSideHome && side != aggregate.TeamSideAway {
		return &ChangePositionResult{Result: failed(fmt.Sprintf("invalid team side: %s", cmd.TeamSide))}, nil
	}

	lineup, err := h.lineups.GetByGameAndSide(ctx, cmd.GameID, side)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return &ChangePositionResult{Result: failed(fmt.Sprintf("lineup not found for game %s side %s", cmd.GameID, cmd.TeamSide))}, nil
		}
		return nil, fmt.Errorf("failed to load lineup: %w", err)
	}

	moved, err := lineup.ChangePosition(aggregate.PlayerID(cmd.PlayerID), aggregate.FieldPosition(cmd.NewPosition), cmd.Inning)
	if err != nil {
		return &ChangePositionResult{Result: failed(err.Error())}, nil
	}

	raised := append([]event.DomainEvent(nil), moved.GetUncommittedEvents()...)
	if err := h.lineups.Save(ctx, moved); err != nil {
		return nil, fmt.Errorf("failed to save lineup: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, raised); err != nil {
		h.logger.Warn("failed to publish position change events", zap.Error(err))
	}

	return &ChangePositionResult{
		Result:   succeeded(),
		GameID:   cmd.GameID,
		PlayerID: cmd.PlayerID,
		Position: cmd.NewPosition,
	}, nil
}
