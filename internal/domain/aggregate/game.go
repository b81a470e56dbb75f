package aggregate

import (
	"fmt"
	"time"

	"softball-scorebook/internal/domain/event"

	"github.com/google/uuid"
)

// GameStatus is the lifecycle state of a game record.
type GameStatus string

const (
	GameStatusInProgress GameStatus = "IN_PROGRESS"
	GameStatusCompleted  GameStatus = "COMPLETED"
)

// Game is the scorekeeping aggregate for one game: status, per-team score
// and the current inning.
type Game struct {
	id            string
	homeTeamName  string
	awayTeamName  string
	status        GameStatus
	homeScore     int
	awayScore     int
	currentInning int
	isTopHalf     bool
	version       int

	uncommittedEvents []event.DomainEvent
}

// NewGame starts a game between two named teams.
func NewGame(homeTeamName, awayTeamName string) (*Game, error) {
	if homeTeamName == "" {
		return nil, fmt.Errorf("homeTeamName cannot be empty")
	}
	if awayTeamName == "" {
		return nil, fmt.Errorf("awayTeamName cannot be empty")
	}

	g := &Game{}
	g.raiseEvent(&event.GameStarted{
		GameID:       uuid.New().String(),
		HomeTeamName: homeTeamName,
		AwayTeamName: awayTeamName,
		Timestamp:    time.Now(),
	})
	return g, nil
}

// NewGameFromHistory rebuilds a game by replaying its events.
func NewGameFromHistory(events []event.DomainEvent) (*Game, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("no events provided")
	}
	g := &Game{}
	for _, e := range events {
		if err := g.applyEvent(e); err != nil {
			return nil, fmt.Errorf("failed to apply event: %w", err)
		}
	}
	return g, nil
}

// AddRuns credits runs to one side.
func (g *Game) AddRuns(side TeamSide, runs int) error {
	if g.status != GameStatusInProgress {
		return fmt.Errorf("game %s is not in progress", g.id)
	}
	if runs < 0 {
		return fmt.Errorf("runs cannot be negative: %d", runs)
	}
	home, away := g.homeScore, g.awayScore
	if side == TeamSideHome {
		home += runs
	} else {
		away += runs
	}
	g.raiseEvent(&event.ScoreUpdated{
		GameID:       g.id,
		TeamSide:     string(side),
		RunsScored:   runs,
		HomeScore:    home,
		AwayScore:    away,
		EventVersion: g.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

// CorrectScore applies a signed correction to one side's score. Used by
// undo to compensate a recorded at-bat without rewriting history.
func (g *Game) CorrectScore(side TeamSide, runsDelta int, reason string) error {
	if g.status != GameStatusInProgress {
		return fmt.Errorf("game %s is not in progress", g.id)
	}
	if side == TeamSideHome && g.homeScore+runsDelta < 0 {
		return fmt.Errorf("correction would make home score negative")
	}
	if side == TeamSideAway && g.awayScore+runsDelta < 0 {
		return fmt.Errorf("correction would make away score negative")
	}
	g.raiseEvent(&event.ScoreCorrected{
		GameID:       g.id,
		TeamSide:     string(side),
		RunsDelta:    runsDelta,
		Reason:       reason,
		EventVersion: g.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

// AdvanceInning moves to the next half inning.
func (g *Game) AdvanceInning() error {
	if g.status != GameStatusInProgress {
		return fmt.Errorf("game %s is not in progress", g.id)
	}
	inning, top := g.currentInning, g.isTopHalf
	if top {
		top = false
	} else {
		top = true
		inning++
	}
	g.raiseEvent(&event.GameInningAdvanced{
		GameID:       g.id,
		Inning:       inning,
		IsTopHalf:    top,
		EventVersion: g.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

// Complete ends the game.
func (g *Game) Complete() error {
	if g.status == GameStatusCompleted {
		return fmt.Errorf("game %s is already completed", g.id)
	}
	g.raiseEvent(&event.GameCompleted{
		GameID:       g.id,
		HomeScore:    g.homeScore,
		AwayScore:    g.awayScore,
		EventVersion: g.version + 1,
		Timestamp:    time.Now(),
	})
	return nil
}

func (g *Game) raiseEvent(ev event.DomainEvent) {
	g.uncommittedEvents = append(g.uncommittedEvents, ev)
	_ = g.applyEvent(ev)
}

func (g *Game) applyEvent(ev event.DomainEvent) error {
	switch e := ev.(type) {
	case *event.GameStarted:
		g.id = e.GameID
		g.homeTeamName = e.HomeTeamName
		g.awayTeamName = e.AwayTeamName
		g.status = GameStatusInProgress
		g.currentInning = 1
		g.isTopHalf = true
		g.version = 1

	case *event.ScoreUpdated:
		g.homeScore = e.HomeScore
		g.awayScore = e.AwayScore
		g.version++

	case *event.ScoreCorrected:
		if TeamSide(e.TeamSide) == TeamSideHome {
			g.homeScore += e.RunsDelta
		} else {
			g.awayScore += e.RunsDelta
		}
		g.version++

	case *event.GameInningAdvanced:
		g.currentInning = e.Inning
		g.isTopHalf = e.IsTopHalf
		g.version++

	case *event.GameCompleted:
		g.status = GameStatusCompleted
		g.version++

	default:
		// Unknown events are skipped for forward compatibility.
	}

	return nil
}

func (g *Game) ID() string           { return g.id }
func (g *Game) HomeTeamName() string { return g.homeTeamName }
func (g *Game) AwayTeamName() string { return g.awayTeamName }
func (g *Game) Status() GameStatus   { return g.status }
func (g *Game) HomeScore() int       { return g.homeScore }
func (g *Game) AwayScore() int       { return g.awayScore }
func (g *Game) CurrentInning() int   { return g.currentInning }
func (g *Game) IsTopHalf() bool      { return g.isTopHalf }
func (g *Game) Version() int         { return g.version }
func (g *Game) IsCompleted() bool    { return g.status == GameStatusCompleted }

func (g *Game) GetUncommittedEvents() []event.DomainEvent {
	return g.uncommittedEvents
}

func (g *Game) MarkEventsAsCommitted() {
	g.uncommittedEvents = nil
}
