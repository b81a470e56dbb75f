package repository

import (
	"context"

	"softball-scorebook/internal/domain/aggregate"
)

// TeamLineupRepository stores lineup aggregates as event streams.
type TeamLineupRepository interface {
	Save(ctx context.Context, lineup *aggregate.TeamLineup) error
	GetByID(ctx context.Context, id string) (*aggregate.TeamLineup, error)
	GetByGameAndSide(ctx context.Context, gameID string, side aggregate.TeamSide) (*aggregate.TeamLineup, error)
}

// GameRepository stores game aggregates as event streams.
type GameRepository interface {
	Save(ctx context.Context, game *aggregate.Game) error
	GetByID(ctx context.Context, id string) (*aggregate.Game, error)
}

// InningRepository stores half-inning aggregates as event streams.
type InningRepository interface {
	Save(ctx context.Context, inning *aggregate.Inning) error
	GetByID(ctx context.Context, id string) (*aggregate.Inning, error)
	GetCurrentByGame(ctx context.Context, gameID string) (*aggregate.Inning, error)
}
