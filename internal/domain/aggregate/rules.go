package aggregate

// SoftballRules stores the league-level parameters the lineup aggregate
// validates against.
type SoftballRules struct {
	MaxPlayersPerTeam int
	InningsPerGame    int
	AllowReentry      bool
	AllowExtraPlayer  bool
}

func DefaultSoftballRules() SoftballRules {
	return SoftballRules{
		MaxPlayersPerTeam: 20,
		InningsPerGame:    7,
		AllowReentry:      true,
		AllowExtraPlayer:  true,
	}
}
