package aggregate

import "testing"

func TestGame_ScoreAndInningFlow(t *testing.T) {
	t.Parallel()

	game, err := NewGame("Hawks", "Owls")
	if err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	if game.Status() != GameStatusInProgress || game.CurrentInning() != 1 || !game.IsTopHalf() {
		t.Fatalf("unexpected initial state: status=%s inning=%d top=%v",
			game.Status(), game.CurrentInning(), game.IsTopHalf())
	}

	if err := game.AddRuns(TeamSideHome, 2); err != nil {
		t.Fatalf("AddRuns error: %v", err)
	}
	if err := game.AddRuns(TeamSideAway, 1); err != nil {
		t.Fatalf("AddRuns error: %v", err)
	}
	if game.HomeScore() != 2 || game.AwayScore() != 1 {
		t.Fatalf("score = %d-%d, want 2-1", game.HomeScore(), game.AwayScore())
	}

	if err := game.AddRuns(TeamSideHome, -1); err == nil {
		t.Fatal("expected error for negative runs")
	}

	// Top of 1 -> bottom of 1 -> top of 2.
	if err := game.AdvanceInning(); err != nil {
		t.Fatalf("AdvanceInning error: %v", err)
	}
	if game.CurrentInning() != 1 || game.IsTopHalf() {
		t.Fatalf("after first advance: inning=%d top=%v, want bottom of 1", game.CurrentInning(), game.IsTopHalf())
	}
	if err := game.AdvanceInning(); err != nil {
		t.Fatalf("AdvanceInning error: %v", err)
	}
	if game.CurrentInning() != 2 || !game.IsTopHalf() {
		t.Fatalf("after second advance: inning=%d top=%v, want top of 2", game.CurrentInning(), game.IsTopHalf())
	}

	if err := game.Complete(); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if !game.IsCompleted() {
		t.Fatal("game must be completed")
	}
	if err := game.Complete(); err == nil {
		t.Fatal("expected error completing twice")
	}
	if err := game.AddRuns(TeamSideHome, 1); err == nil {
		t.Fatal("expected error scoring a completed game")
	}
}

func TestGame_CorrectScore(t *testing.T) {
	t.Parallel()

	game, err := NewGame("Hawks", "Owls")
	if err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	if err := game.AddRuns(TeamSideHome, 3); err != nil {
		t.Fatalf("AddRuns error: %v", err)
	}

	if err := game.CorrectScore(TeamSideHome, -2, "undo at-bat"); err != nil {
		t.Fatalf("CorrectScore error: %v", err)
	}
	if game.HomeScore() != 1 {
		t.Fatalf("home score = %d, want 1", game.HomeScore())
	}

	if err := game.CorrectScore(TeamSideHome, -5, "bad correction"); err == nil {
		t.Fatal("expected error for correction below zero")
	}
	if err := game.CorrectScore(TeamSideAway, -1, "bad correction"); err == nil {
		t.Fatal("expected error for correction below zero")
	}
}

func TestNewGameFromHistory(t *testing.T) {
	t.Parallel()

	game, err := NewGame("Hawks", "Owls")
	if err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	_ = game.AddRuns(TeamSideHome, 2)
	_ = game.CorrectScore(TeamSideHome, -1, "undo at-bat")
	_ = game.AdvanceInning()

	replayed, err := NewGameFromHistory(game.GetUncommittedEvents())
	if err != nil {
		t.Fatalf("NewGameFromHistory error: %v", err)
	}

	if replayed.HomeScore() != game.HomeScore() ||
		replayed.CurrentInning() != game.CurrentInning() ||
		replayed.IsTopHalf() != game.IsTopHalf() ||
		replayed.Version() != game.Version() {
		t.Fatalf("replayed state mismatch: %d/%d inning=%d top=%v version=%d",
			replayed.HomeScore(), replayed.AwayScore(), replayed.CurrentInning(),
			replayed.IsTopHalf(), replayed.Version())
	}

	if _, err := NewGameFromHistory(nil); err == nil {
		t.Fatal("expected error for empty history")
	}
}
