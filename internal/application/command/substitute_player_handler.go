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

// SubstitutePlayerHandler applies one lineup substitution. Substitutions
// are recorded in the action history but are not automatically undoable:
// reversing one can itself be an illegal re-entry.
type SubstitutePlayerHandler struct {
	lineups  repository.TeamLineupRepository
	history  *ActionHistory
	eventBus bus.EventBus
	rules    aggregate.SoftballRules
	logger   *zap.Logger
}

func NewSubstitutePlayerHandler(
	lineups repository.TeamLineupRepository,
	history *ActionHistory,
	eventBus bus.EventBus,
	rules aggregate.SoftballRules,
	logger *zap.Logger,
) *SubstitutePlayerHandler {
	return &SubstitutePlayerHandler{
		lineups:  lineups,
		history:  history,
		eventBus: eventBus,
		rules:    rules,
		logger:   logger,
	}
}

// Execute processes the substitute player command.
func (h *SubstitutePlayerHandler) Execute(ctx context.Context, cmd *SubstitutePlayer) (*SubstitutePlayerResult, error) {
	if cmd == nil {
		return &SubstitutePlayerResult{Result: failed("command cannot be nil")}, nil
	}
	side := aggregate.TeamSide(cmd.TeamSide)
	if side != aggregate.TeamSideHome && side != aggregate.TeamSideAway {
		return &SubstitutePlayerResult{Result: failed(fmt.Sprintf("invalid team side: %s", cmd.TeamSide))}, nil
	}
	if cmd.IncomingPlayerID == "" || cmd.OutgoingPlayerID == "" {
		return &SubstitutePlayerResult{Result: failed("both outgoing and incoming player ids are required")}, nil
	}

	lineup, err := h.lineups.GetByGameAndSide(ctx, cmd.GameID, side)
	if err != nil {
		if errors.Is(err, repository.ErrStreamNotFound) {
			return &SubstitutePlayerResult{Result: failed(fmt.Sprintf("lineup not found for game %s side %s", cmd.GameID, cmd.TeamSide))}, nil
		}
		return nil, fmt.Errorf("failed to load lineup: %w", err)
	}

	substituted, err := lineup.SubstitutePlayer(
		cmd.BattingSlot,
		aggregate.PlayerID(cmd.OutgoingPlayerID),
		aggregate.PlayerID(cmd.IncomingPlayerID),
		cmd.IncomingJersey,
		cmd.IncomingName,
		aggregate.FieldPosition(cmd.NewPosition),
		cmd.Inning,
		h.rules,
		cmd.IsReentry,
	)
	if err != nil {
		return &SubstitutePlayerResult{Result: failed(err.Error())}, nil
	}

	raised := append([]event.DomainEvent(nil), substituted.GetUncommittedEvents()...)
	if err := h.lineups.Save(ctx, substituted); err != nil {
		return nil, fmt.Errorf("failed to save lineup: %w", err)
	}

	if err := h.eventBus.PublishBatch(ctx, raised); err != nil {
		h.logger.Warn("failed to publish substitution events", zap.Error(err))
	}

	h.history.Record(&ActionEntry{
		Name:       "SubstitutePlayer",
		GameID:     cmd.GameID,
		OccurredAt: time.Now(),
	})

	return &SubstitutePlayerResult{
		Result:           succeeded(),
		GameID:           cmd.GameID,
		LineupID:         substituted.ID(),
		BattingSlot:      cmd.BattingSlot,
		IncomingPlayerID: cmd.IncomingPlayerID,
		IsReentry:        cmd.IsReentry,
	}, nil
}
