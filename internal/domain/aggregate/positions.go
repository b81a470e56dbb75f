package aggregate

import "github.com/google/uuid"

// PlayerID identifies one player within a game. It is comparable with ==
// so it can key maps and appear in participation history.
type PlayerID string

// NewPlayerID generates a fresh player identifier.
func NewPlayerID() PlayerID {
	return PlayerID(uuid.New().String())
}

func (id PlayerID) String() string { return string(id) }

// TeamSide distinguishes the two lineups of a game.
type TeamSide string

const (
	TeamSideHome TeamSide = "HOME"
	TeamSideAway TeamSide = "AWAY"
)

// FieldPosition is a defensive position on the softball field.
type FieldPosition string

const (
	PositionPitcher      FieldPosition = "PITCHER"
	PositionCatcher      FieldPosition = "CATCHER"
	PositionFirstBase    FieldPosition = "FIRST_BASE"
	PositionSecondBase   FieldPosition = "SECOND_BASE"
	PositionThirdBase    FieldPosition = "THIRD_BASE"
	PositionShortstop    FieldPosition = "SHORTSTOP"
	PositionLeftField    FieldPosition = "LEFT_FIELD"
	PositionCenterField  FieldPosition = "CENTER_FIELD"
	PositionRightField   FieldPosition = "RIGHT_FIELD"
	PositionShortFielder FieldPosition = "SHORT_FIELDER"

	// PositionExtraPlayer bats but takes no defensive assignment. It is
	// excluded from position-exclusivity checks: any number of players
	// may hold it at once.
	PositionExtraPlayer FieldPosition = "EXTRA_PLAYER"
)

// AllFieldPositions enumerates every valid position value.
var AllFieldPositions = map[FieldPosition]struct{}{
	PositionPitcher:      {},
	PositionCatcher:      {},
	PositionFirstBase:    {},
	PositionSecondBase:   {},
	PositionThirdBase:    {},
	PositionShortstop:    {},
	PositionLeftField:    {},
	PositionCenterField:  {},
	PositionRightField:   {},
	PositionShortFielder: {},
	PositionExtraPlayer:  {},
}

func (p FieldPosition) IsValid() bool {
	_, ok := AllFieldPositions[p]
	return ok
}

// IsExtraPlayer reports whether the position is the extra/utility role.
func (p FieldPosition) IsExtraPlayer() bool { return p == PositionExtraPlayer }
