package command

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"softball-scorebook/internal/domain/aggregate"
	"softball-scorebook/internal/infrastructure/bus"
	"softball-scorebook/internal/infrastructure/eventstore"

	"go.uber.org/zap"
)

type handlerFixture struct {
	games     *eventstore.GameRepository
	lineups   *eventstore.TeamLineupRepository
	innings   *eventstore.InningRepository
	history   *ActionHistory
	startGame *StartNewGameHandler
	atBat     *RecordAtBatHandler
	sub       *SubstitutePlayerHandler
	endInning *EndInningHandler
	undo      *UndoLastActionHandler
	redo      *RedoLastActionHandler
}

func newHandlerFixture() *handlerFixture {
	store := eventstore.NewInMemoryEventStore()
	games := eventstore.NewGameRepository(store)
	lineups := eventstore.NewTeamLineupRepository(store)
	innings := eventstore.NewInningRepository(store)
	history := NewActionHistory()
	eventBus := bus.NewAsyncEventBus(zap.NewNop())
	rules := aggregate.DefaultSoftballRules()
	logger := zap.NewNop()

	return &handlerFixture{
		games:     games,
		lineups:   lineups,
		innings:   innings,
		history:   history,
		startGame: NewStartNewGameHandler(games, lineups, innings, eventBus, rules, logger),
		atBat:     NewRecordAtBatHandler(games, lineups, innings, history, eventBus, logger),
		sub:       NewSubstitutePlayerHandler(lineups, history, eventBus, rules, logger),
		endInning: NewEndInningHandler(games, innings, history, eventBus, rules, logger),
		undo:      NewUndoLastActionHandler(history, logger),
		redo:      NewRedoLastActionHandler(history, logger),
	}
}

func roster(prefix string) []RosterEntry {
	positions := []aggregate.FieldPosition{
		aggregate.PositionPitcher,
		aggregate.PositionCatcher,
		aggregate.PositionFirstBase,
		aggregate.PositionSecondBase,
		aggregate.PositionThirdBase,
		aggregate.PositionShortstop,
		aggregate.PositionLeftField,
		aggregate.PositionCenterField,
		aggregate.PositionRightField,
	}
	entries := make([]RosterEntry, 0, len(positions))
	for i, pos := range positions {
		entries = append(entries, RosterEntry{
			PlayerID:      fmt.Sprintf("%s-%d", prefix, i+1),
			JerseyNumber:  fmt.Sprintf("%s%d", prefix, i+1),
			PlayerName:    fmt.Sprintf("Player %s %d", prefix, i+1),
			BattingSlot:   i + 1,
			FieldPosition: string(pos),
		})
	}
	return entries
}

func mustStartGame(t *testing.T, f *handlerFixture) *StartNewGameResult {
	t.Helper()
	result, err := f.startGame.Execute(context.Background(), &StartNewGame{
		HomeTeamName: "Hawks",
		AwayTeamName: "Owls",
		HomeRoster:   roster("h"),
		AwayRoster:   roster("a"),
	})
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("start game rejected: %v", result.Errors)
	}
	return result
}

func TestStartNewGameHandler(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()

	result, err := f.startGame.Execute(ctx, nil)
	if err != nil || result.IsSuccess() {
		t.Fatalf("nil command must fail logically, got %+v err=%v", result, err)
	}

	result, err = f.startGame.Execute(ctx, &StartNewGame{HomeTeamName: "Hawks"})
	if err != nil || result.IsSuccess() {
		t.Fatalf("missing away team must fail, got %+v", result)
	}

	dup := roster("h")
	dup[1].JerseyNumber = dup[0].JerseyNumber
	result, err = f.startGame.Execute(ctx, &StartNewGame{
		HomeTeamName: "Hawks",
		AwayTeamName: "Owls",
		HomeRoster:   dup,
		AwayRoster:   roster("a"),
	})
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if result.IsSuccess() {
		t.Fatal("duplicate jersey in roster must be rejected")
	}

	started := mustStartGame(t, f)
	if started.GameID == "" || started.HomeLineupID == "" || started.AwayLineupID == "" || started.InningID == "" {
		t.Fatalf("missing identifiers: %+v", started)
	}

	home, err := f.lineups.GetByGameAndSide(ctx, started.GameID, aggregate.TeamSideHome)
	if err != nil {
		t.Fatalf("home lineup not persisted: %v", err)
	}
	if got := len(home.GetActiveLineup()); got != 9 {
		t.Fatalf("active lineup size = %d, want 9", got)
	}

	game, err := f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("game not persisted: %v", err)
	}
	if game.CurrentInning() != 1 || !game.IsTopHalf() {
		t.Fatalf("game must open at the top of the first inning")
	}
}

func TestRecordAtBatHandler_Flow(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	result, err := f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      "no-such-game",
		BattingSide: string(aggregate.TeamSideAway),
		BatterID:    "a-1",
		Result:      string(aggregate.AtBatSingle),
	})
	if err != nil || result.IsSuccess() {
		t.Fatalf("unknown game must fail logically, got %+v err=%v", result, err)
	}

	result, err = f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideAway),
		BatterID:    "a-1",
		Result:      string(aggregate.AtBatHomeRun),
		RunsScored:  2,
	})
	if err != nil {
		t.Fatalf("at-bat fault: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("at-bat rejected: %v", result.Errors)
	}
	if result.AwayScore != 2 || result.HomeScore != 0 {
		t.Fatalf("score = %d-%d, want 0-2", result.HomeScore, result.AwayScore)
	}
	if result.Outs != 0 || result.InningEnded {
		t.Fatalf("home run must not cost an out: %+v", result)
	}

	for i := 0; i < 3; i++ {
		result, err = f.atBat.Execute(ctx, &RecordAtBat{
			GameID:      started.GameID,
			BattingSide: string(aggregate.TeamSideAway),
			BatterID:    fmt.Sprintf("a-%d", i+2),
			Result:      string(aggregate.AtBatOut),
		})
		if err != nil || !result.IsSuccess() {
			t.Fatalf("out %d: %+v err=%v", i+1, result, err)
		}
	}
	if result.Outs != 3 || !result.InningEnded {
		t.Fatalf("third out must end the half inning: %+v", result)
	}

	result, err = f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideAway),
		BatterID:    "a-5",
		Result:      string(aggregate.AtBatSingle),
	})
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if result.IsSuccess() {
		t.Fatal("at-bat against an ended half inning must be rejected")
	}
}

func TestEndInningHandler_AdvancesHalves(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	result, err := f.endInning.Execute(ctx, &EndInning{GameID: started.GameID})
	if err != nil {
		t.Fatalf("end inning fault: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("end inning rejected: %v", result.Errors)
	}
	if result.InningNumber != 1 || !result.IsTopHalf {
		t.Fatalf("closed half = %+v, want top of 1st", result)
	}
	if result.NextInningID == "" {
		t.Fatal("next inning must be opened")
	}

	game, err := f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if game.CurrentInning() != 1 || game.IsTopHalf() {
		t.Fatal("game must now be in the bottom of the first inning")
	}

	atBat, err := f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideHome),
		BatterID:    "h-1",
		Result:      string(aggregate.AtBatSingle),
		RunsScored:  1,
	})
	if err != nil || !atBat.IsSuccess() {
		t.Fatalf("at-bat in new half inning: %+v err=%v", atBat, err)
	}
	if atBat.HomeScore != 1 {
		t.Fatalf("home score = %d, want 1", atBat.HomeScore)
	}
}

func TestSubstitutePlayerHandler_ReentryRules(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	// Starter out, bench player in.
	result, err := f.sub.Execute(ctx, &SubstitutePlayer{
		GameID:           started.GameID,
		TeamSide:         string(aggregate.TeamSideHome),
		BattingSlot:      1,
		OutgoingPlayerID: "h-1",
		IncomingPlayerID: "bench-1",
		IncomingJersey:   "h99",
		IncomingName:     "Bench One",
		NewPosition:      string(aggregate.PositionPitcher),
		Inning:           2,
	})
	if err != nil {
		t.Fatalf("substitution fault: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("substitution rejected: %v", result.Errors)
	}
	if result.BattingSlot != 1 || result.IncomingPlayerID != "bench-1" {
		t.Fatalf("result = %+v", result)
	}

	// The original starter re-enters once.
	result, err = f.sub.Execute(ctx, &SubstitutePlayer{
		GameID:           started.GameID,
		TeamSide:         string(aggregate.TeamSideHome),
		BattingSlot:      1,
		OutgoingPlayerID: "bench-1",
		IncomingPlayerID: "h-1",
		NewPosition:      string(aggregate.PositionPitcher),
		Inning:           4,
		IsReentry:        true,
	})
	if err != nil || !result.IsSuccess() {
		t.Fatalf("starter re-entry: %+v err=%v", result, err)
	}
	if !result.IsReentry {
		t.Fatal("re-entry flag must carry through")
	}

	// The replaced substitute is out of the game for good.
	result, err = f.sub.Execute(ctx, &SubstitutePlayer{
		GameID:           started.GameID,
		TeamSide:         string(aggregate.TeamSideHome),
		BattingSlot:      1,
		OutgoingPlayerID: "h-1",
		IncomingPlayerID: "bench-1",
		NewPosition:      string(aggregate.PositionPitcher),
		Inning:           5,
		IsReentry:        true,
	})
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if result.IsSuccess() {
		t.Fatal("a removed substitute must not re-enter")
	}

	result, err = f.sub.Execute(ctx, &SubstitutePlayer{
		GameID:           started.GameID,
		TeamSide:         "SIDEWAYS",
		BattingSlot:      1,
		OutgoingPlayerID: "h-1",
		IncomingPlayerID: "bench-2",
	})
	if err != nil || result.IsSuccess() {
		t.Fatalf("invalid team side must fail logically, got %+v", result)
	}
}

func TestUndoRedoHandlers_RoundTrip(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	undone, err := f.undo.Execute(ctx, &UndoLastAction{GameID: started.GameID})
	if err != nil {
		t.Fatalf("undo fault: %v", err)
	}
	if undone.IsSuccess() || !strings.Contains(strings.Join(undone.Errors, ";"), "nothing to undo") {
		t.Fatalf("empty history undo = %+v", undone)
	}

	atBat, err := f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideAway),
		BatterID:    "a-1",
		Result:      string(aggregate.AtBatSingle),
		RunsScored:  1,
	})
	if err != nil || !atBat.IsSuccess() {
		t.Fatalf("at-bat: %+v err=%v", atBat, err)
	}

	undone, err = f.undo.Execute(ctx, &UndoLastAction{GameID: started.GameID})
	if err != nil {
		t.Fatalf("undo fault: %v", err)
	}
	if !undone.IsSuccess() || undone.UndoneAction != "RecordAtBat" {
		t.Fatalf("undo = %+v", undone)
	}
	game, err := f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if game.AwayScore() != 0 {
		t.Fatalf("away score after undo = %d, want 0", game.AwayScore())
	}

	redone, err := f.redo.Execute(ctx, &RedoLastAction{GameID: started.GameID})
	if err != nil {
		t.Fatalf("redo fault: %v", err)
	}
	if !redone.IsSuccess() || redone.RedoneAction != "RecordAtBat" {
		t.Fatalf("redo = %+v", redone)
	}
	game, err = f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if game.AwayScore() != 1 {
		t.Fatalf("away score after redo = %d, want 1", game.AwayScore())
	}

	redone, err = f.redo.Execute(ctx, &RedoLastAction{GameID: started.GameID})
	if err != nil || redone.IsSuccess() {
		t.Fatalf("exhausted redo stack must fail logically, got %+v", redone)
	}
}

func TestUndoLastActionHandler_NonUndoableAction(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	closed, err := f.endInning.Execute(ctx, &EndInning{GameID: started.GameID})
	if err != nil || !closed.IsSuccess() {
		t.Fatalf("end inning: %+v err=%v", closed, err)
	}

	undone, err := f.undo.Execute(ctx, &UndoLastAction{GameID: started.GameID})
	if err != nil {
		t.Fatalf("undo fault: %v", err)
	}
	if undone.IsSuccess() || !strings.Contains(strings.Join(undone.Errors, ";"), "cannot be undone") {
		t.Fatalf("undo of EndInning = %+v", undone)
	}
	if f.history.UndoDepth(started.GameID) != 1 {
		t.Fatal("non-undoable entry must stay on the stack")
	}
}

func mustEndInning(t *testing.T, f *handlerFixture, gameID string) *EndInningResult {
	t.Helper()
	result, err := f.endInning.Execute(context.Background(), &EndInning{GameID: gameID})
	if err != nil {
		t.Fatalf("end inning fault: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("end inning rejected: %v", result.Errors)
	}
	return result
}

func TestEndInningHandler_CompletesGameAfterRegulation(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	atBat, err := f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideAway),
		BatterID:    "a-1",
		Result:      string(aggregate.AtBatHomeRun),
		RunsScored:  1,
	})
	if err != nil || !atBat.IsSuccess() {
		t.Fatalf("at-bat: %+v err=%v", atBat, err)
	}

	// Seven innings times two halves. The first 13 closes keep the game
	// alive; closing the bottom of the 7th with the away side ahead ends it.
	for i := 1; i <= 13; i++ {
		result := mustEndInning(t, f, started.GameID)
		if result.GameEnded {
			t.Fatalf("close %d ended the game early: %+v", i, result)
		}
		if result.NextInningID == "" {
			t.Fatalf("close %d must open the next half inning", i)
		}
	}

	final := mustEndInning(t, f, started.GameID)
	if final.InningNumber != 7 || final.IsTopHalf {
		t.Fatalf("final close = %+v, want bottom of 7th", final)
	}
	if !final.GameEnded {
		t.Fatal("game must end after the bottom of the 7th with a decided score")
	}
	if final.NextInningID != "" {
		t.Fatal("no half inning may open after the game ends")
	}

	game, err := f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if !game.IsCompleted() || game.CurrentInning() != 7 {
		t.Fatalf("game inning=%d completed=%v, want 7/true", game.CurrentInning(), game.IsCompleted())
	}

	atBat, err = f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideAway),
		BatterID:    "a-2",
		Result:      string(aggregate.AtBatSingle),
	})
	if err != nil || atBat.IsSuccess() {
		t.Fatalf("at-bat after the final out must be rejected, got %+v", atBat)
	}
	closed, err := f.endInning.Execute(ctx, &EndInning{GameID: started.GameID})
	if err != nil || closed.IsSuccess() {
		t.Fatalf("ending an inning of a finished game must be rejected, got %+v", closed)
	}
}

func TestEndInningHandler_HomeLeadSkipsFinalBottom(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	mustEndInning(t, f, started.GameID)
	atBat, err := f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideHome),
		BatterID:    "h-1",
		Result:      string(aggregate.AtBatHomeRun),
		RunsScored:  1,
	})
	if err != nil || !atBat.IsSuccess() {
		t.Fatalf("at-bat: %+v err=%v", atBat, err)
	}

	for i := 2; i <= 12; i++ {
		if result := mustEndInning(t, f, started.GameID); result.GameEnded {
			t.Fatalf("close %d ended the game early: %+v", i, result)
		}
	}

	// The home side leads after the top of the 7th and never needs to bat.
	final := mustEndInning(t, f, started.GameID)
	if final.InningNumber != 7 || !final.IsTopHalf {
		t.Fatalf("final close = %+v, want top of 7th", final)
	}
	if !final.GameEnded {
		t.Fatal("leading home side ends the game without its final at-bats")
	}

	game, err := f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if !game.IsCompleted() {
		t.Fatal("game record must be completed")
	}
}

func TestEndInningHandler_TieExtendsToExtraInnings(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture()
	ctx := context.Background()
	started := mustStartGame(t, f)

	for i := 1; i <= 14; i++ {
		if result := mustEndInning(t, f, started.GameID); result.GameEnded {
			t.Fatalf("close %d ended a tied game: %+v", i, result)
		}
	}

	game, err := f.games.GetByID(ctx, started.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if game.IsCompleted() || game.CurrentInning() != 8 || !game.IsTopHalf() {
		t.Fatalf("tied game must reach the top of the 8th, got inning=%d top=%v completed=%v",
			game.CurrentInning(), game.IsTopHalf(), game.IsCompleted())
	}

	if result := mustEndInning(t, f, started.GameID); result.GameEnded {
		t.Fatalf("tied top of the 8th must continue: %+v", result)
	}

	atBat, err := f.atBat.Execute(ctx, &RecordAtBat{
		GameID:      started.GameID,
		BattingSide: string(aggregate.TeamSideHome),
		BatterID:    "h-1",
		Result:      string(aggregate.AtBatSingle),
		RunsScored:  1,
	})
	if err != nil || !atBat.IsSuccess() {
		t.Fatalf("walk-off at-bat: %+v err=%v", atBat, err)
	}

	final := mustEndInning(t, f, started.GameID)
	if !final.GameEnded || final.InningNumber != 8 || final.IsTopHalf {
		t.Fatalf("final close = %+v, want game over after the bottom of the 8th", final)
	}
}
