package eventstore

import (
	"context"
	"fmt"
	"sync"

	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/domain/repository"
)

// Aggregate type tags used as the stream discriminator.
const (
	AggregateTypeTeamLineup = "TeamLineup"
	AggregateTypeGame       = "Game"
	AggregateTypeInning     = "Inning"
)

// TeamLineupRepository persists lineups through an EventStore and keeps a
// game/side index so a lineup can be found without knowing its stream ID.
type TeamLineupRepository struct {
	store repository.EventStore

	mutex  sync.RWMutex
	byGame map[string]string // gameID+side -> streamID
}

func NewTeamLineupRepository(store repository.EventStore) *TeamLineupRepository {
	return &TeamLineupRepository{
		store:  store,
		byGame: make(map[string]string),
	}
}

func (r *TeamLineupRepository) Save(ctx context.Context, lineup *aggregate.TeamLineup) error {
	events := lineup.GetUncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	expectedVersion := lineup.Version() - len(events)
	if err := r.store.SaveEvents(ctx, lineup.ID(), AggregateTypeTeamLineup, events, expectedVersion); err != nil {
		return err
	}
	lineup.MarkEventsAsCommitted()

	r.mutex.Lock()
	r.byGame[gameSideKey(lineup.GameID(), lineup.TeamSide())] = lineup.ID()
	r.mutex.Unlock()
	return nil
}

func (r *TeamLineupRepository) GetByID(ctx context.Context, id string) (*aggregate.TeamLineup, error) {
	events, err := r.store.GetEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return aggregate.NewTeamLineupFromHistory(events)
}

func (r *TeamLineupRepository) GetByGameAndSide(ctx context.Context, gameID string, side aggregate.TeamSide) (*aggregate.TeamLineup, error) {
	r.mutex.RLock()
	streamID, ok := r.byGame[gameSideKey(gameID, side)]
	r.mutex.RUnlock()
	if !ok {
		var err error
		streamID, err = r.reindex(ctx, gameID, side)
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, streamID)
}

// reindex rebuilds the game/side index by scanning lineup streams in the
// store. Needed after a restart on a durable store, where the streams
// outlive the in-process map.
func (r *TeamLineupRepository) reindex(ctx context.Context, gameID string, side aggregate.TeamSide) (string, error) {
	ids, err := r.store.StreamIDsByType(ctx, AggregateTypeTeamLineup)
	if err != nil {
		return "", err
	}

	found := ""
	for _, id := range ids {
		lineup, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		r.mutex.Lock()
		r.byGame[gameSideKey(lineup.GameID(), lineup.TeamSide())] = id
		r.mutex.Unlock()
		if lineup.GameID() == gameID && lineup.TeamSide() == side {
			found = id
		}
	}
	if found == "" {
		return "", fmt.Errorf("%w: no %s lineup for game %s", repository.ErrStreamNotFound, side, gameID)
	}
	return found, nil
}

func gameSideKey(gameID string, side aggregate.TeamSide) string {
	return gameID + "/" + string(side)
}

// GameRepository persists game aggregates through an EventStore.
type GameRepository struct {
	store repository.EventStore
}

func NewGameRepository(store repository.EventStore) *GameRepository {
	return &GameRepository{store: store}
}

func (r *GameRepository) Save(ctx context.Context, game *aggregate.Game) error {
	events := game.GetUncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	expectedVersion := game.Version() - len(events)
	if err := r.store.SaveEvents(ctx, game.ID(), AggregateTypeGame, events, expectedVersion); err != nil {
		return err
	}
	game.MarkEventsAsCommitted()
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*aggregate.Game, error) {
	events, err := r.store.GetEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return aggregate.NewGameFromHistory(events)
}

// InningRepository persists half-inning aggregates through an EventStore
// and tracks the currently open inning per game.
type InningRepository struct {
	store repository.EventStore

	mutex   sync.RWMutex
	current map[string]string // gameID -> streamID of latest inning
}

func NewInningRepository(store repository.EventStore) *InningRepository {
	return &InningRepository{
		store:   store,
		current: make(map[string]string),
	}
}

func (r *InningRepository) Save(ctx context.Context, inning *aggregate.Inning) error {
	events := inning.GetUncommittedEvents()
	if len(events) == 0 {
		return nil
	}
	expectedVersion := inning.Version() - len(events)
	if err := r.store.SaveEvents(ctx, inning.ID(), AggregateTypeInning, events, expectedVersion); err != nil {
		return err
	}
	inning.MarkEventsAsCommitted()

	r.mutex.Lock()
	r.current[inning.GameID()] = inning.ID()
	r.mutex.Unlock()
	return nil
}

func (r *InningRepository) GetByID(ctx context.Context, id string) (*aggregate.Inning, error) {
	events, err := r.store.GetEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return aggregate.NewInningFromHistory(events)
}

func (r *InningRepository) GetCurrentByGame(ctx context.Context, gameID string) (*aggregate.Inning, error) {
	r.mutex.RLock()
	streamID, ok := r.current[gameID]
	r.mutex.RUnlock()
	if ok {
		return r.GetByID(ctx, streamID)
	}

	// Rebuild from the store: after a restart on a durable store the map
	// is empty while the game's inning streams still exist.
	ids, err := r.store.StreamIDsByType(ctx, AggregateTypeInning)
	if err != nil {
		return nil, err
	}
	var latest *aggregate.Inning
	for _, id := range ids {
		inning, err := r.GetByID(ctx, id)
		if err != nil || inning.GameID() != gameID {
			continue
		}
		if latest == nil || laterHalf(inning, latest) {
			latest = inning
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: no open inning for game %s", repository.ErrStreamNotFound, gameID)
	}

	r.mutex.Lock()
	r.current[gameID] = latest.ID()
	r.mutex.Unlock()
	return latest, nil
}

// laterHalf reports whether a comes after b in game order. The bottom
// half follows the top half of the same inning.
func laterHalf(a, b *aggregate.Inning) bool {
	if a.InningNumber() != b.InningNumber() {
		return a.InningNumber() > b.InningNumber()
	}
	return !a.IsTopHalf() && b.IsTopHalf()
}

var _ repository.TeamLineupRepository = (*TeamLineupRepository)(nil)
var _ repository.GameRepository = (*GameRepository)(nil)
var _ repository.InningRepository = (*InningRepository)(nil)
var _ repository.EventStore = (*InMemoryEventStore)(nil)
