package projection

import (
	"context"
	"fmt"

	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/infrastructure/bus"
)

// RegisterScoreboardProjection subscribes the scoreboard projection to
// every game event it consumes.
func RegisterScoreboardProjection(eventBus bus.EventBus, p ScoreboardProjection) error {
	subscriptions := map[string]bus.EventHandlerFunc{
		"GameStarted": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.GameStarted)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleGameStarted(ctx, evt)
		},
		"ScoreUpdated": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.ScoreUpdated)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleScoreUpdated(ctx, evt)
		},
		"ScoreCorrected": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.ScoreCorrected)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleScoreCorrected(ctx, evt)
		},
		"GameInningAdvanced": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.GameInningAdvanced)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleGameInningAdvanced(ctx, evt)
		},
		"GameCompleted": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.GameCompleted)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleGameCompleted(ctx, evt)
		},
	}

	for eventType, handler := range subscriptions {
		if err := eventBus.Subscribe(eventType, handler); err != nil {
			return fmt.Errorf("failed to subscribe scoreboard projection to %s: %w", eventType, err)
		}
	}
	return nil
}

// RegisterLineupProjection subscribes the lineup projection to every
// lineup event it consumes.
func RegisterLineupProjection(eventBus bus.EventBus, p LineupProjection) error {
	subscriptions := map[string]bus.EventHandlerFunc{
		"TeamLineupCreated": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.TeamLineupCreated)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleTeamLineupCreated(ctx, evt)
		},
		"PlayerAddedToLineup": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.PlayerAddedToLineup)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandlePlayerAddedToLineup(ctx, evt)
		},
		"PlayerSubstitutedIntoGame": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.PlayerSubstitutedIntoGame)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandlePlayerSubstitutedIntoGame(ctx, evt)
		},
		"FieldPositionChanged": func(ctx context.Context, e event.DomainEvent) error {
			evt, ok := e.(*event.FieldPositionChanged)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", e.EventType())
			}
			return p.HandleFieldPositionChanged(ctx, evt)
		},
	}

	for eventType, handler := range subscriptions {
		if err := eventBus.Subscribe(eventType, handler); err != nil {
			return fmt.Errorf("failed to subscribe lineup projection to %s: %w", eventType, err)
		}
	}
	return nil
}
