package eventstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/domain/event"
	"softball-scorebook/internal/domain/repository"
)

func gameEvents(gameID string, n int) []event.DomainEvent {
	events := []event.DomainEvent{
		&event.GameStarted{GameID: gameID, HomeTeamName: "Hawks", AwayTeamName: "Owls", Timestamp: time.Now()},
	}
	for i := 2; i <= n; i++ {
		events = append(events, &event.ScoreUpdated{
			GameID:       gameID,
			TeamSide:     "HOME",
			RunsScored:   1,
			HomeScore:    i - 1,
			EventVersion: i,
			Timestamp:    time.Now(),
		})
	}
	return events
}

func TestInMemoryEventStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	ctx := context.Background()

	events := gameEvents("game-1", 3)
	if err := store.SaveEvents(ctx, "game-1", AggregateTypeGame, events, 0); err != nil {
		t.Fatalf("SaveEvents error: %v", err)
	}

	loaded, err := store.GetEvents(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetEvents error: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded %d events, want 3", len(loaded))
	}
	if loaded[0].EventType() != "GameStarted" {
		t.Fatalf("first event = %s, want GameStarted", loaded[0].EventType())
	}

	if _, err := store.GetEvents(ctx, "missing"); !errors.Is(err, repository.ErrStreamNotFound) {
		t.Fatalf("error = %v, want ErrStreamNotFound", err)
	}
}

func TestInMemoryEventStore_VersionConflict(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	ctx := context.Background()

	events := gameEvents("game-1", 2)
	if err := store.SaveEvents(ctx, "game-1", AggregateTypeGame, events[:1], 0); err != nil {
		t.Fatalf("SaveEvents error: %v", err)
	}

	// A stale writer still expecting an empty stream must lose.
	err := store.SaveEvents(ctx, "game-1", AggregateTypeGame, events[1:], 0)
	if !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("error = %v, want ErrVersionConflict", err)
	}

	// The writer that reloads and presents the current version wins.
	if err := store.SaveEvents(ctx, "game-1", AggregateTypeGame, events[1:], 1); err != nil {
		t.Fatalf("SaveEvents at current version error: %v", err)
	}
}

func TestInMemoryEventStore_RejectsAggregateTypeMismatch(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	ctx := context.Background()

	if err := store.SaveEvents(ctx, "stream-1", AggregateTypeGame, gameEvents("stream-1", 1), 0); err != nil {
		t.Fatalf("SaveEvents error: %v", err)
	}
	err := store.SaveEvents(ctx, "stream-1", AggregateTypeInning, gameEvents("stream-1", 1), 1)
	if err == nil {
		t.Fatal("expected error for aggregate type mismatch")
	}
}

func TestInMemoryEventStore_StoredEventsCarrySequenceAndPayload(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	ctx := context.Background()

	if err := store.SaveEvents(ctx, "game-1", AggregateTypeGame, gameEvents("game-1", 3), 0); err != nil {
		t.Fatalf("SaveEvents error: %v", err)
	}

	stored, err := store.GetStoredEvents(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetStoredEvents error: %v", err)
	}
	for i, se := range stored {
		if se.Sequence != i+1 {
			t.Fatalf("sequence[%d] = %d, want %d", i, se.Sequence, i+1)
		}
		if se.AggregateType != AggregateTypeGame {
			t.Fatalf("aggregate type = %s, want %s", se.AggregateType, AggregateTypeGame)
		}
		if _, err := event.Deserialize(se.EventType, se.Payload); err != nil {
			t.Fatalf("payload of %s does not round-trip: %v", se.EventType, err)
		}
	}
}

func TestTeamLineupRepository_SaveAndReload(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	repo := NewTeamLineupRepository(store)
	ctx := context.Background()
	rules := aggregate.DefaultSoftballRules()

	lineup, err := aggregate.NewTeamLineup("game-1", "Hawks", aggregate.TeamSideHome)
	if err != nil {
		t.Fatalf("NewTeamLineup error: %v", err)
	}
	lineup, err = lineup.AddPlayer("p1", "10", "Ada", 1, aggregate.PositionPitcher, rules)
	if err != nil {
		t.Fatalf("AddPlayer error: %v", err)
	}

	if err := repo.Save(ctx, lineup); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if len(lineup.GetUncommittedEvents()) != 0 {
		t.Fatal("events must be marked committed after save")
	}

	reloaded, err := repo.GetByGameAndSide(ctx, "game-1", aggregate.TeamSideHome)
	if err != nil {
		t.Fatalf("GetByGameAndSide error: %v", err)
	}
	if reloaded.ID() != lineup.ID() || reloaded.Version() != lineup.Version() {
		t.Fatalf("reloaded id=%s version=%d, want id=%s version=%d",
			reloaded.ID(), reloaded.Version(), lineup.ID(), lineup.Version())
	}

	if _, err := repo.GetByGameAndSide(ctx, "game-1", aggregate.TeamSideAway); !errors.Is(err, repository.ErrStreamNotFound) {
		t.Fatalf("error = %v, want ErrStreamNotFound", err)
	}
}

func TestTeamLineupRepository_StaleAggregateConflicts(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	repo := NewTeamLineupRepository(store)
	ctx := context.Background()
	rules := aggregate.DefaultSoftballRules()

	base, err := aggregate.NewTeamLineup("game-1", "Hawks", aggregate.TeamSideHome)
	if err != nil {
		t.Fatalf("NewTeamLineup error: %v", err)
	}
	if err := repo.Save(ctx, base); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Two writers branch from the same committed state.
	first, err := base.AddPlayer("p1", "10", "Ada", 1, aggregate.PositionPitcher, rules)
	if err != nil {
		t.Fatalf("AddPlayer error: %v", err)
	}
	second, err := base.AddPlayer("p2", "11", "Bea", 2, aggregate.PositionCatcher, rules)
	if err != nil {
		t.Fatalf("AddPlayer error: %v", err)
	}

	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("error = %v, want ErrVersionConflict", err)
	}
}

func TestInningRepository_TracksCurrentInning(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	repo := NewInningRepository(store)
	ctx := context.Background()

	first, err := aggregate.NewInning("game-1", 1, true)
	if err != nil {
		t.Fatalf("NewInning error: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	second, err := aggregate.NewInning("game-1", 1, false)
	if err != nil {
		t.Fatalf("NewInning error: %v", err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	current, err := repo.GetCurrentByGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetCurrentByGame error: %v", err)
	}
	if current.ID() != second.ID() || current.IsTopHalf() {
		t.Fatalf("current inning = %s top=%v, want %s bottom", current.ID(), current.IsTopHalf(), second.ID())
	}

	if _, err := repo.GetCurrentByGame(ctx, "game-2"); !errors.Is(err, repository.ErrStreamNotFound) {
		t.Fatalf("error = %v, want ErrStreamNotFound", err)
	}
}

func TestRepositories_RebuildIndexesFromStore(t *testing.T) {
	t.Parallel()

	store := NewInMemoryEventStore()
	ctx := context.Background()
	rules := aggregate.DefaultSoftballRules()

	lineups := NewTeamLineupRepository(store)
	home, err := aggregate.NewTeamLineup("game-1", "Hawks", aggregate.TeamSideHome)
	if err != nil {
		t.Fatalf("NewTeamLineup error: %v", err)
	}
	home, err = home.AddPlayer("p1", "10", "Ada", 1, aggregate.PositionPitcher, rules)
	if err != nil {
		t.Fatalf("AddPlayer error: %v", err)
	}
	if err := lineups.Save(ctx, home); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	away, err := aggregate.NewTeamLineup("game-1", "Owls", aggregate.TeamSideAway)
	if err != nil {
		t.Fatalf("NewTeamLineup error: %v", err)
	}
	if err := lineups.Save(ctx, away); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	innings := NewInningRepository(store)
	for _, half := range []struct {
		number int
		top    bool
	}{{1, true}, {1, false}, {2, true}} {
		inning, err := aggregate.NewInning("game-1", half.number, half.top)
		if err != nil {
			t.Fatalf("NewInning error: %v", err)
		}
		if err := innings.Save(ctx, inning); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	// Fresh repositories over the same store stand in for a process
	// restart with a durable backend: the in-memory lookup maps start
	// empty and must be rebuilt from the streams.
	freshLineups := NewTeamLineupRepository(store)
	reloadedHome, err := freshLineups.GetByGameAndSide(ctx, "game-1", aggregate.TeamSideHome)
	if err != nil {
		t.Fatalf("GetByGameAndSide after restart error: %v", err)
	}
	if reloadedHome.ID() != home.ID() || reloadedHome.TeamName() != "Hawks" {
		t.Fatalf("reloaded lineup = %s/%s, want %s/Hawks", reloadedHome.ID(), reloadedHome.TeamName(), home.ID())
	}
	if _, err := freshLineups.GetByGameAndSide(ctx, "game-1", aggregate.TeamSideAway); err != nil {
		t.Fatalf("away lineup after restart error: %v", err)
	}
	if _, err := freshLineups.GetByGameAndSide(ctx, "game-9", aggregate.TeamSideHome); !errors.Is(err, repository.ErrStreamNotFound) {
		t.Fatalf("error = %v, want ErrStreamNotFound", err)
	}

	freshInnings := NewInningRepository(store)
	current, err := freshInnings.GetCurrentByGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetCurrentByGame after restart error: %v", err)
	}
	if current.InningNumber() != 2 || !current.IsTopHalf() {
		t.Fatalf("current inning = %d top=%v, want top of 2nd", current.InningNumber(), current.IsTopHalf())
	}
	if _, err := freshInnings.GetCurrentByGame(ctx, "game-9"); !errors.Is(err, repository.ErrStreamNotFound) {
		t.Fatalf("error = %v, want ErrStreamNotFound", err)
	}
}
