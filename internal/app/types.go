package app

// Side identifies one of the two players in a battle ("p1" or "p2").
type Side string

const (
	SideP1 Side = "p1"
	SideP2 Side = "p2"
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SideP1 {
		return SideP2
	}
	return SideP1
}

// Sides returns both sides in fixed order
func Sides() [2]Side {
	return [2]Side{SideP1, SideP2}
}

// ReplaySummary represents one entry from the replay search API
type ReplaySummary struct {
	ID         string   `json:"id"`
	Format     string   `json:"format"`
	Players    []string `json:"players"`
	UploadTime int64    `json:"uploadtime"`
	Rating     int      `json:"rating"`
	Private    int      `json:"private"`
	Password   string   `json:"password"`
}

// ReplayDocument represents a full replay fetched from /<id>.json
type ReplayDocument struct {
	ID         string   `json:"id"`
	Format     string   `json:"format"`
	FormatID   string   `json:"formatid"`
	Players    []string `json:"players"`
	Log        string   `json:"log"`
	UploadTime int64    `json:"uploadtime"`
	Rating     int      `json:"rating"`
	Views      int      `json:"views"`
}

// PlayerResult holds the per-player portion of an interpreted match.
// Name and Rating are nil when the log never carried a player line
// (or carried one without a numeric rating).
type PlayerResult struct {
	Name     *string
	Rating   *int
	TeamSize *int
	Lead     string
	Team     []string
}

// CombatantStats holds the aggregate statistics for one fielded combatant,
// keyed by side and in-battle nickname. Species is the durable identity.
type CombatantStats struct {
	Side           Side
	Nickname       string
	Species        string
	Moves          map[string]int
	DamageDealt    int
	DamageReceived int
	StatusDealt    int
	StatusReceived int
	KOsDealt       int
	KOsReceived    int
	TurnsOnField   int
}

// MatchRecord is the final interpreted output for one replay
type MatchRecord struct {
	ReplayID   string
	Format     string
	UploadTime int64
	Winner     *Side
	Turns      int
	P1         PlayerResult
	P2         PlayerResult
	Combatants []CombatantStats
}

// Player returns the result for the given side
func (m *MatchRecord) Player(side Side) *PlayerResult {
	if side == SideP1 {
		return &m.P1
	}
	return &m.P2
}
