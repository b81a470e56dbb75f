package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"softball-scorebook/internal/domain/event"

	"github.com/google/uuid"
)

// Substitution and lineup rule violations. Wrapped with context via %w so
// callers can match with errors.Is.
var (
	ErrSlotOutOfRange        = errors.New("batting slot out of range")
	ErrSlotOccupied          = errors.New("batting slot already occupied")
	ErrSlotVacant            = errors.New("batting slot is vacant")
	ErrJerseyTaken           = errors.New("jersey number already assigned")
	ErrPositionOccupied      = errors.New("field position already occupied")
	ErrUnknownFieldPosition  = errors.New("unknown field position")
	ErrPlayerAlreadyInLineup = errors.New("player already in lineup")
	ErrPlayerNotInSlot       = errors.New("outgoing player does not occupy the batting slot")
	ErrPlayerAlreadyActive   = errors.New("incoming player is already active in the lineup")
	ErrPlayerNotActive       = errors.New("player is not active in the lineup")
	ErrInvalidInning         = errors.New("inning must be at least 1")
	ErrSamePosition          = errors.New("player already occupies that position")
	ErrExtraPlayerDisabled   = errors.New("extra player role is not permitted under the current rules")

	ErrNotInTeamHistory   = errors.New("player is not in team history")
	ErrReentryNonStarter  = errors.New("only starters are eligible for re-entry")
	ErrReentryAlreadyUsed = errors.New("player has already used re-entry privilege")
	ErrReentryNotRemoved  = errors.New("player must have been previously substituted")
	ErrNonStarterReentry  = errors.New("non-starter players cannot re-enter")
	ErrReentryDisabled    = errors.New("re-entry is not permitted under the current rules")
)

// SlotAssignment is one entry in a batting slot's substitution history.
type SlotAssignment struct {
	PlayerID       PlayerID
	ReplacedPlayer PlayerID // empty for the original starter
	EnteredInning  int      // 0 for pre-game entry
	IsReentry      bool
}

// BattingSlot is one position in the batting order.
type BattingSlot struct {
	Position      int
	CurrentPlayer PlayerID
	History       []SlotAssignment
}

// PlayerParticipation tracks one player's involvement for the lifetime of
// the lineup.
type PlayerParticipation struct {
	PlayerID        PlayerID
	JerseyNumber    string
	Name            string
	IsStarter       bool
	CurrentSlot     int           // 0 when not currently in the batting order
	CurrentPosition FieldPosition // empty when benched or in the extra role
	HasBeenRemoved  bool
	HasUsedReentry  bool
}

// IsActive reports whether the player currently occupies a batting slot.
func (p *PlayerParticipation) IsActive() bool { return p.CurrentSlot != 0 }

// TeamLineup is the roster aggregate for one team in one game. Every
// mutation returns a new instance; backing maps are cloned copy-on-write,
// so state reached through a previously returned reference never changes.
type TeamLineup struct {
	id         string
	gameID     string
	teamName   string
	teamSide   TeamSide
	version    int
	onDeckSlot int

	battingSlots   map[int]*BattingSlot
	fieldPositions map[FieldPosition]PlayerID
	participation  map[PlayerID]*PlayerParticipation
	jerseys        map[string]PlayerID

	uncommittedEvents []event.DomainEvent
}

// NewTeamLineup creates an empty lineup for one side of a game.
func NewTeamLineup(gameID, teamName string, side TeamSide) (*TeamLineup, error) {
	if gameID == "" {
		return nil, fmt.Errorf("gameID cannot be empty")
	}
	if teamName == "" {
		return nil, fmt.Errorf("teamName cannot be empty")
	}
	if side != TeamSideHome && side != TeamSideAway {
		return nil, fmt.Errorf("invalid team side: %s", side)
	}

	l := &TeamLineup{}
	l.raiseEvent(&event.TeamLineupCreated{
		TeamLineupID: uuid.New().String(),
		GameID:       gameID,
		TeamName:     teamName,
		TeamSide:     string(side),
		Timestamp:    time.Now(),
	})
	return l, nil
}

// NewTeamLineupFromHistory rebuilds a lineup by replaying its event
// stream. The first event must be the creation event and every event must
// belong to the same stream. Business rules are not re-validated: stored
// events are assumed to have passed them when first raised. Identifier
// fields arrive as plain strings and are re-hydrated into PlayerID and
// FieldPosition values during apply.
func NewTeamLineupFromHistory(events []event.DomainEvent) (*TeamLineup, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("no events provided")
	}
	created, ok := events[0].(*event.TeamLineupCreated)
	if !ok {
		return nil, fmt.Errorf("first event must be TeamLineupCreated, got %s", events[0].EventType())
	}

	l := &TeamLineup{}
	if err := l.applyEvent(created); err != nil {
		return nil, err
	}
	for _, e := range events[1:] {
		if _, dup := e.(*event.TeamLineupCreated); dup {
			return nil, fmt.Errorf("duplicate TeamLineupCreated event in stream %s", created.TeamLineupID)
		}
		if e.AggregateID() != l.id {
			return nil, fmt.Errorf("event stream mismatch: expected %s, got %s", l.id, e.AggregateID())
		}
		if err := l.applyEvent(e); err != nil {
			return nil, fmt.Errorf("failed to apply event: %w", err)
		}
	}
	return l, nil
}

// AddPlayer enters a starter into the batting order before play.
func (l *TeamLineup) AddPlayer(playerID PlayerID, jerseyNumber, name string, slot int, position FieldPosition, rules SoftballRules) (*TeamLineup, error) {
	if slot < 1 || slot > rules.MaxPlayersPerTeam {
		return nil, fmt.Errorf("%w: slot=%d max=%d", ErrSlotOutOfRange, slot, rules.MaxPlayersPerTeam)
	}
	if !position.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFieldPosition, position)
	}
	if position.IsExtraPlayer() && !rules.AllowExtraPlayer {
		return nil, fmt.Errorf("%w: player=%s", ErrExtraPlayerDisabled, playerID)
	}
	if _, occupied := l.battingSlots[slot]; occupied {
		return nil, fmt.Errorf("%w: slot=%d", ErrSlotOccupied, slot)
	}
	if owner, taken := l.jerseys[jerseyNumber]; taken {
		return nil, fmt.Errorf("%w: jersey=%s player=%s", ErrJerseyTaken, jerseyNumber, owner)
	}
	if _, tracked := l.participation[playerID]; tracked {
		return nil, fmt.Errorf("%w: player=%s", ErrPlayerAlreadyInLineup, playerID)
	}
	if !position.IsExtraPlayer() {
		if owner, occupied := l.fieldPositions[position]; occupied {
			return nil, fmt.Errorf("%w: position=%s player=%s", ErrPositionOccupied, position, owner)
		}
	}

	next := l.clone()
	next.raiseEvent(&event.PlayerAddedToLineup{
		TeamLineupID:  l.id,
		PlayerID:      string(playerID),
		JerseyNumber:  jerseyNumber,
		PlayerName:    name,
		BattingSlot:   slot,
		FieldPosition: string(position),
		EventVersion:  l.version + 1,
		Timestamp:     time.Now(),
	})
	return next, nil
}

// SubstitutePlayer replaces the occupant of a batting slot. With isReentry
// the incoming player must be a removed starter with their one re-entry
// still unused; without it an incoming player with a removal on record must
// not be a former substitute trying to come back.
func (l *TeamLineup) SubstitutePlayer(slot int, outgoing, incoming PlayerID, incomingJersey, incomingName string, newPosition FieldPosition, inning int, rules SoftballRules, isReentry bool) (*TeamLineup, error) {
	if inning < 1 {
		return nil, fmt.Errorf("%w: inning=%d", ErrInvalidInning, inning)
	}
	if slot < 1 || slot > rules.MaxPlayersPerTeam {
		return nil, fmt.Errorf("%w: slot=%d max=%d", ErrSlotOutOfRange, slot, rules.MaxPlayersPerTeam)
	}
	if !newPosition.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFieldPosition, newPosition)
	}
	if newPosition.IsExtraPlayer() && !rules.AllowExtraPlayer {
		return nil, fmt.Errorf("%w: player=%s", ErrExtraPlayerDisabled, incoming)
	}
	occupied, ok := l.battingSlots[slot]
	if !ok {
		return nil, fmt.Errorf("%w: slot=%d", ErrSlotVacant, slot)
	}
	if occupied.CurrentPlayer != outgoing {
		return nil, fmt.Errorf("%w: slot=%d occupant=%s", ErrPlayerNotInSlot, slot, occupied.CurrentPlayer)
	}
	if record, tracked := l.participation[incoming]; tracked && record.IsActive() {
		return nil, fmt.Errorf("%w: player=%s slot=%d", ErrPlayerAlreadyActive, incoming, record.CurrentSlot)
	}
	if owner, taken := l.jerseys[incomingJersey]; taken && owner != incoming {
		return nil, fmt.Errorf("%w: jersey=%s player=%s", ErrJerseyTaken, incomingJersey, owner)
	}
	if !newPosition.IsExtraPlayer() {
		if owner, taken := l.fieldPositions[newPosition]; taken && owner != incoming && owner != outgoing {
			return nil, fmt.Errorf("%w: position=%s player=%s", ErrPositionOccupied, newPosition, owner)
		}
	}

	record, tracked := l.participation[incoming]
	if isReentry {
		switch {
		case !rules.AllowReentry:
			return nil, fmt.Errorf("%w: player=%s", ErrReentryDisabled, incoming)
		case !tracked:
			return nil, fmt.Errorf("%w: player=%s", ErrNotInTeamHistory, incoming)
		case !record.IsStarter:
			return nil, fmt.Errorf("%w: player=%s", ErrReentryNonStarter, incoming)
		case record.HasUsedReentry:
			return nil, fmt.Errorf("%w: player=%s", ErrReentryAlreadyUsed, incoming)
		case !record.HasBeenRemoved:
			return nil, fmt.Errorf("%w: player=%s", ErrReentryNotRemoved, incoming)
		}
	} else if tracked && record.HasBeenRemoved && !record.IsStarter {
		return nil, fmt.Errorf("%w: player=%s", ErrNonStarterReentry, incoming)
	}

	next := l.clone()
	// The substitution event carries identifiers only, so the incoming
	// player's jersey and name are fixed on the participation record here
	// rather than during apply.
	next.ensureParticipation(incoming, incomingJersey, incomingName)
	next.raiseEvent(&event.PlayerSubstitutedIntoGame{
		TeamLineupID:     l.id,
		BattingSlot:      slot,
		OutgoingPlayerID: string(outgoing),
		IncomingPlayerID: string(incoming),
		FieldPosition:    string(newPosition),
		Inning:           inning,
		IsReentry:        isReentry,
		EventVersion:     l.version + 1,
		Timestamp:        time.Now(),
	})
	return next, nil
}

// ChangePosition moves an active player to a different defensive position.
// Moving to the extra role drops the defensive assignment while keeping
// the player in the batting order.
func (l *TeamLineup) ChangePosition(playerID PlayerID, newPosition FieldPosition, inning int) (*TeamLineup, error) {
	if inning < 1 {
		return nil, fmt.Errorf("%w: inning=%d", ErrInvalidInning, inning)
	}
	if !newPosition.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFieldPosition, newPosition)
	}
	record, tracked := l.participation[playerID]
	if !tracked || !record.IsActive() {
		return nil, fmt.Errorf("%w: player=%s", ErrPlayerNotActive, playerID)
	}
	if record.CurrentPosition == newPosition {
		return nil, fmt.Errorf("%w: player=%s position=%s", ErrSamePosition, playerID, newPosition)
	}
	if !newPosition.IsExtraPlayer() {
		if owner, taken := l.fieldPositions[newPosition]; taken && owner != playerID {
			return nil, fmt.Errorf("%w: position=%s player=%s", ErrPositionOccupied, newPosition, owner)
		}
	}

	next := l.clone()
	next.raiseEvent(&event.FieldPositionChanged{
		TeamLineupID: l.id,
		PlayerID:     string(playerID),
		FromPosition: string(record.CurrentPosition),
		ToPosition:   string(newPosition),
		Inning:       inning,
		EventVersion: l.version + 1,
		Timestamp:    time.Now(),
	})
	return next, nil
}

// AdvanceBatter moves the on-deck pointer one slot forward, wrapping from
// totalSlots back to 1.
func (l *TeamLineup) AdvanceBatter(totalSlots int) (*TeamLineup, error) {
	if totalSlots < 1 {
		return nil, fmt.Errorf("totalSlots must be at least 1, got %d", totalSlots)
	}
	newSlot := l.onDeckSlot%totalSlots + 1

	next := l.clone()
	next.raiseEvent(&event.BatterAdvancedInLineup{
		TeamLineupID: l.id,
		PreviousSlot: l.onDeckSlot,
		NewSlot:      newSlot,
		TeamSide:     string(l.teamSide),
		EventVersion: l.version + 1,
		Timestamp:    time.Now(),
	})
	return next, nil
}

func (l *TeamLineup) raiseEvent(ev event.DomainEvent) {
	l.uncommittedEvents = append(l.uncommittedEvents, ev)
	_ = l.applyEvent(ev)
}

// applyEvent runs the state transition shared by live mutation and
// replay. Unknown event types are skipped so newer streams stay readable.
func (l *TeamLineup) applyEvent(ev event.DomainEvent) error {
	switch e := ev.(type) {
	case *event.TeamLineupCreated:
		l.id = e.TeamLineupID
		l.gameID = e.GameID
		l.teamName = e.TeamName
		l.teamSide = TeamSide(e.TeamSide)
		l.version = 1
		l.onDeckSlot = 1
		l.battingSlots = make(map[int]*BattingSlot)
		l.fieldPositions = make(map[FieldPosition]PlayerID)
		l.participation = make(map[PlayerID]*PlayerParticipation)
		l.jerseys = make(map[string]PlayerID)

	case *event.PlayerAddedToLineup:
		playerID := PlayerID(e.PlayerID)
		position := FieldPosition(e.FieldPosition)
		l.battingSlots[e.BattingSlot] = &BattingSlot{
			Position:      e.BattingSlot,
			CurrentPlayer: playerID,
			History: []SlotAssignment{{
				PlayerID: playerID,
			}},
		}
		record := &PlayerParticipation{
			PlayerID:     playerID,
			JerseyNumber: e.JerseyNumber,
			Name:         e.PlayerName,
			IsStarter:    true,
			CurrentSlot:  e.BattingSlot,
		}
		if !position.IsExtraPlayer() {
			record.CurrentPosition = position
			l.fieldPositions[position] = playerID
		}
		l.participation[playerID] = record
		l.jerseys[e.JerseyNumber] = playerID
		l.version++

	case *event.PlayerSubstitutedIntoGame:
		outgoing := PlayerID(e.OutgoingPlayerID)
		incoming := PlayerID(e.IncomingPlayerID)
		position := FieldPosition(e.FieldPosition)

		slot := l.battingSlots[e.BattingSlot]
		slot.CurrentPlayer = incoming
		slot.History = append(slot.History, SlotAssignment{
			PlayerID:       incoming,
			ReplacedPlayer: outgoing,
			EnteredInning:  e.Inning,
			IsReentry:      e.IsReentry,
		})

		if out, ok := l.participation[outgoing]; ok {
			if out.CurrentPosition != "" {
				delete(l.fieldPositions, out.CurrentPosition)
			}
			out.CurrentSlot = 0
			out.CurrentPosition = ""
			out.HasBeenRemoved = true
		}

		// Substitution events do not carry jersey or name, so a player
		// first seen during replay gets a deterministic placeholder.
		// This keeps jersey uniqueness intact and is a documented
		// approximation of the live record. In the live path the record
		// was already registered by SubstitutePlayer, so this is a no-op.
		if _, ok := l.participation[incoming]; !ok {
			placeholderJersey := fmt.Sprintf("sub-%s", e.IncomingPlayerID)
			l.participation[incoming] = &PlayerParticipation{
				PlayerID:     incoming,
				JerseyNumber: placeholderJersey,
				Name:         fmt.Sprintf("Substitute %s", e.IncomingPlayerID),
			}
			l.jerseys[placeholderJersey] = incoming
		}

		in := l.participation[incoming]
		in.CurrentSlot = e.BattingSlot
		if e.IsReentry {
			in.HasUsedReentry = true
		}
		if position.IsExtraPlayer() {
			in.CurrentPosition = ""
		} else {
			in.CurrentPosition = position
			l.fieldPositions[position] = incoming
		}
		l.version++

	case *event.FieldPositionChanged:
		playerID := PlayerID(e.PlayerID)
		from := FieldPosition(e.FromPosition)
		to := FieldPosition(e.ToPosition)

		if from != "" && !from.IsExtraPlayer() && l.fieldPositions[from] == playerID {
			delete(l.fieldPositions, from)
		}
		record := l.participation[playerID]
		if to.IsExtraPlayer() {
			record.CurrentPosition = ""
		} else {
			record.CurrentPosition = to
			l.fieldPositions[to] = playerID
		}
		l.version++

	case *event.BatterAdvancedInLineup:
		l.onDeckSlot = e.NewSlot
		l.version++

	default:
		// Forward compatibility: events from a newer build are ignored.
	}

	return nil
}

// ensureParticipation registers a participation record for a player not
// yet in team history, or refreshes jersey and name for one that is. Used
// by the live substitution path only: the substitution event does not
// carry jersey or name, so they must land on the record before apply.
func (l *TeamLineup) ensureParticipation(playerID PlayerID, jerseyNumber, name string) {
	if record, ok := l.participation[playerID]; ok {
		if record.JerseyNumber != jerseyNumber {
			delete(l.jerseys, record.JerseyNumber)
			record.JerseyNumber = jerseyNumber
			l.jerseys[jerseyNumber] = playerID
		}
		if name != "" {
			record.Name = name
		}
		return
	}
	l.participation[playerID] = &PlayerParticipation{
		PlayerID:     playerID,
		JerseyNumber: jerseyNumber,
		Name:         name,
	}
	l.jerseys[jerseyNumber] = playerID
}

func (l *TeamLineup) clone() *TeamLineup {
	next := &TeamLineup{
		id:             l.id,
		gameID:         l.gameID,
		teamName:       l.teamName,
		teamSide:       l.teamSide,
		version:        l.version,
		onDeckSlot:     l.onDeckSlot,
		battingSlots:   make(map[int]*BattingSlot, len(l.battingSlots)),
		fieldPositions: make(map[FieldPosition]PlayerID, len(l.fieldPositions)),
		participation:  make(map[PlayerID]*PlayerParticipation, len(l.participation)),
		jerseys:        make(map[string]PlayerID, len(l.jerseys)),
	}
	for idx, slot := range l.battingSlots {
		copied := *slot
		copied.History = append([]SlotAssignment(nil), slot.History...)
		next.battingSlots[idx] = &copied
	}
	for pos, id := range l.fieldPositions {
		next.fieldPositions[pos] = id
	}
	for id, record := range l.participation {
		copied := *record
		next.participation[id] = &copied
	}
	for jersey, id := range l.jerseys {
		next.jerseys[jersey] = id
	}
	next.uncommittedEvents = append([]event.DomainEvent(nil), l.uncommittedEvents...)
	return next
}

// GetActiveLineup returns the occupied batting slots in batting order.
func (l *TeamLineup) GetActiveLineup() []BattingSlot {
	slots := make([]BattingSlot, 0, len(l.battingSlots))
	for _, slot := range l.battingSlots {
		copied := *slot
		copied.History = append([]SlotAssignment(nil), slot.History...)
		slots = append(slots, copied)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })
	return slots
}

// GetFieldingPositions returns the current defensive alignment. Players in
// the extra role do not appear.
func (l *TeamLineup) GetFieldingPositions() map[FieldPosition]PlayerID {
	positions := make(map[FieldPosition]PlayerID, len(l.fieldPositions))
	for pos, id := range l.fieldPositions {
		positions[pos] = id
	}
	return positions
}

// IsPlayerEligibleForReentry reports whether the player could legally
// re-enter right now: an original starter, currently out of the lineup,
// with their one re-entry unused.
func (l *TeamLineup) IsPlayerEligibleForReentry(playerID PlayerID) bool {
	record, ok := l.participation[playerID]
	if !ok {
		return false
	}
	return record.IsStarter && record.HasBeenRemoved && !record.HasUsedReentry && !record.IsActive()
}

// GetPlayerHistory returns a copy of the participation record for a player.
func (l *TeamLineup) GetPlayerHistory(playerID PlayerID) (PlayerParticipation, bool) {
	record, ok := l.participation[playerID]
	if !ok {
		return PlayerParticipation{}, false
	}
	return *record, true
}

// TrackedPlayers returns the IDs of every player that has ever appeared.
func (l *TeamLineup) TrackedPlayers() []PlayerID {
	ids := make([]PlayerID, 0, len(l.participation))
	for id := range l.participation {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (l *TeamLineup) ID() string         { return l.id }
func (l *TeamLineup) GameID() string     { return l.gameID }
func (l *TeamLineup) TeamName() string   { return l.teamName }
func (l *TeamLineup) TeamSide() TeamSide { return l.teamSide }
func (l *TeamLineup) Version() int       { return l.version }
func (l *TeamLineup) OnDeckSlot() int    { return l.onDeckSlot }

func (l *TeamLineup) GetUncommittedEvents() []event.DomainEvent {
	return l.uncommittedEvents
}

func (l *TeamLineup) MarkEventsAsCommitted() {
	l.uncommittedEvents = nil
}
