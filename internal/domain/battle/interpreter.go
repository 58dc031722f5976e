package battle

import (
	"strconv"
	"strings"

	"showdown_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// playerInfo holds the identity a player line binds to a side
type playerInfo struct {
	name     *string
	rating   *int
	teamSize *int
}

// Interpreter decodes one battle log into aggregate statistics. It owns all
// of its state, so one instance serves exactly one replay and instances for
// different replays can run concurrently. Events must be applied in file
// order: later events resolve their implicit subjects against state the
// earlier ones established.
type Interpreter struct {
	tracker *ActiveTracker
	roster  *RosterRegistry
	agg     *Aggregator
	players map[app.Side]*playerInfo
	winner  *app.Side
	turns   int
}

// NewInterpreter creates a fresh interpreter for one replay
func NewInterpreter() *Interpreter {
	return &Interpreter{
		tracker: NewActiveTracker(),
		roster:  NewRosterRegistry(),
		agg:     NewAggregator(),
		players: make(map[app.Side]*playerInfo, 2),
	}
}

// InterpretLog runs the full interpretation pipeline over one replay
// document. A document without a log yields a record carrying only the
// replay metadata; malformed content inside the log never surfaces as an
// error, only as skipped statistics.
func InterpretLog(doc *app.ReplayDocument) app.MatchRecord {
	it := NewInterpreter()

	for _, line := range strings.Split(doc.Log, "\n") {
		if event, ok := ParseLine(line); ok {
			it.Apply(event)
		}
	}

	return it.Resolve(doc)
}

// Apply dispatches one event to the components it affects
func (it *Interpreter) Apply(event Event) {
	switch event.Tag {
	case "player":
		it.applyPlayer(event)
	case "teamsize":
		it.applyTeamSize(event)
	case "switch", "drag":
		it.applyEntry(event)
	case "turn":
		it.turns++
		it.tickActiveCombatants()
	case "win":
		it.applyWin(event)
	case "move":
		it.applyMove(event)
	case "-status":
		it.applyStatus(event)
	case "-damage":
		it.applyDamage(event)
	case "-heal":
		it.applyHeal(event)
	case "faint":
		it.applyFaint(event)
	case "-sidestart", "-sideend", "weather":
		// Side conditions and weather are observed but feed no statistic.
	default:
		// Unrecognized tags are ignored.
	}
}

// playerSide returns the registered info slot for a side, creating it on
// first reference.
func (it *Interpreter) playerSide(side app.Side) *playerInfo {
	info, ok := it.players[side]
	if !ok {
		info = &playerInfo{}
		it.players[side] = info
	}
	return info
}

func (it *Interpreter) applyPlayer(event Event) {
	if len(event.Fields) < 2 {
		return
	}

	side := app.Side(event.Fields[0])
	info := it.playerSide(side)

	if info.name == nil && event.Fields[1] != "" {
		name := event.Fields[1]
		info.name = &name
	}

	// The rating field is sometimes empty or absent entirely.
	if info.rating == nil && len(event.Fields) >= 4 {
		if rating, err := strconv.Atoi(event.Fields[3]); err == nil {
			info.rating = &rating
		}
	}
}

func (it *Interpreter) applyTeamSize(event Event) {
	if len(event.Fields) < 2 {
		return
	}

	count, err := strconv.Atoi(event.Fields[1])
	if err != nil {
		return
	}
	it.playerSide(app.Side(event.Fields[0])).teamSize = &count
}

func (it *Interpreter) applyEntry(event Event) {
	if len(event.Fields) < 3 {
		return
	}

	side, nickname, err := ParsePosition(event.Fields[0])
	if err != nil {
		log.Debug().Err(err).Str("tag", event.Tag).Msg("Skipping entry event with malformed position")
		return
	}

	species := SpeciesOf(event.Fields[1])
	if species == "" {
		return
	}

	hp, _, err := ParseHP(event.Fields[2])
	if err != nil {
		log.Debug().Err(err).Str("tag", event.Tag).Msg("Skipping entry event with malformed health")
		return
	}

	if rebound := it.roster.Register(side, nickname, species); rebound {
		log.Debug().
			Str("side", string(side)).
			Str("nickname", nickname).
			Str("species", species).
			Msg("Nickname already bound to a different species; keeping first binding")
	}

	it.tracker.OnEntry(side, nickname, hp)
}

// tickActiveCombatants credits one turn of field presence to whichever
// combatant is active on each side.
func (it *Interpreter) tickActiveCombatants() {
	for _, side := range app.Sides() {
		if state, ok := it.tracker.Current(side); ok {
			it.agg.RecordTurn(side, state.Nickname)
		}
	}
}

func (it *Interpreter) applyWin(event Event) {
	if len(event.Fields) < 1 {
		return
	}

	if side := it.resolveWinner(event.Fields[0]); side != nil {
		it.winner = side
	}

	// The log may end without a trailing turn marker after the decisive
	// move, so the final occupants get their last turn credited here.
	it.tickActiveCombatants()
}

// resolveWinner maps the win event's payload to a side. The payload is the
// winning player's display name in real logs, but a bare side identifier is
// accepted too.
func (it *Interpreter) resolveWinner(winner string) *app.Side {
	if s := app.Side(winner); s == app.SideP1 || s == app.SideP2 {
		return &s
	}

	for _, side := range app.Sides() {
		if info, ok := it.players[side]; ok && info.name != nil && *info.name == winner {
			side := side
			return &side
		}
	}

	log.Debug().Str("winner", winner).Msg("Win event names no known player")
	return nil
}

func (it *Interpreter) applyMove(event Event) {
	if len(event.Fields) < 2 {
		return
	}

	side, nickname, err := ParsePosition(event.Fields[0])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping move event with malformed position")
		return
	}

	if _, ok := it.roster.Species(side, nickname); !ok {
		log.Debug().
			Str("side", string(side)).
			Str("nickname", nickname).
			Msg("Move event names combatant with no roster entry; skipping")
		return
	}

	it.agg.RecordMove(side, nickname, event.Fields[1])
}

func (it *Interpreter) applyStatus(event Event) {
	// Only the two-field form (victim position, status name) attributes the
	// status to the opposing active combatant. Longer payloads carry a
	// cause qualifier, e.g. environmental, and are not attributed.
	if len(event.Fields) != 2 {
		return
	}

	victimSide, victimNick, err := ParsePosition(event.Fields[0])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping status event with malformed position")
		return
	}

	if _, ok := it.roster.Species(victimSide, victimNick); !ok {
		log.Debug().
			Str("side", string(victimSide)).
			Str("nickname", victimNick).
			Msg("Status event names combatant with no roster entry; skipping")
		return
	}

	attackerSide := victimSide.Opponent()
	attacker, ok := it.tracker.Current(attackerSide)
	if !ok {
		log.Debug().
			Str("side", string(attackerSide)).
			Msg("No active combatant to attribute status to; skipping")
		return
	}

	it.agg.RecordStatus(attackerSide, attacker.Nickname, victimSide, victimNick)
}

func (it *Interpreter) applyDamage(event Event) {
	if len(event.Fields) < 2 {
		return
	}

	victimSide, victimNick, err := ParsePosition(event.Fields[0])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping damage event with malformed position")
		return
	}

	newHP, fainted, err := ParseHP(event.Fields[1])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping damage event with malformed health")
		return
	}

	// Only the bare two-field payload is direct damage. A third field names
	// an indirect cause ([from] ...); those update health without
	// attributing damage to anyone.
	if len(event.Fields) == 2 {
		it.attributeDamage(victimSide, victimNick, newHP, fainted)
	}

	it.tracker.OnEntry(victimSide, victimNick, newHP)
}

// attributeDamage credits a direct health decrease to the opposing active
// combatant. Any missing piece of the attribution (no prior health reading,
// no active attacker, no roster entry for the victim) drops this one event's
// statistics and nothing else.
func (it *Interpreter) attributeDamage(victimSide app.Side, victimNick string, newHP int, fainted bool) {
	victim, ok := it.tracker.Current(victimSide)
	if !ok {
		log.Debug().
			Str("side", string(victimSide)).
			Str("nickname", victimNick).
			Msg("Damage event with no prior health reading; skipping attribution")
		return
	}

	if _, ok := it.roster.Species(victimSide, victimNick); !ok {
		log.Debug().
			Str("side", string(victimSide)).
			Str("nickname", victimNick).
			Msg("Damage event names combatant with no roster entry; skipping attribution")
		return
	}

	attackerSide := victimSide.Opponent()
	attacker, ok := it.tracker.Current(attackerSide)
	if !ok {
		log.Debug().
			Str("side", string(attackerSide)).
			Msg("No active combatant to attribute damage to; skipping attribution")
		return
	}

	delta := victim.HP - newHP
	if delta < 0 {
		log.Debug().
			Str("side", string(victimSide)).
			Str("nickname", victimNick).
			Int("delta", delta).
			Msg("Negative damage delta from overlapping effects; clamping to zero")
	}

	it.agg.RecordDamage(attackerSide, attacker.Nickname, victimSide, victimNick, delta, fainted)
}

func (it *Interpreter) applyHeal(event Event) {
	if len(event.Fields) < 2 {
		return
	}

	side, nickname, err := ParsePosition(event.Fields[0])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping heal event with malformed position")
		return
	}

	newHP, _, err := ParseHP(event.Fields[1])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping heal event with malformed health")
		return
	}

	// Heals are not tallied; they only refresh the tracked health so the
	// next damage delta is computed against the healed value.
	it.tracker.OnEntry(side, nickname, newHP)
}

func (it *Interpreter) applyFaint(event Event) {
	if len(event.Fields) < 1 {
		return
	}

	side, nickname, err := ParsePosition(event.Fields[0])
	if err != nil {
		log.Debug().Err(err).Msg("Skipping faint event with malformed position")
		return
	}

	if _, ok := it.roster.Species(side, nickname); !ok {
		log.Debug().
			Str("side", string(side)).
			Str("nickname", nickname).
			Msg("Faint event names combatant with no roster entry; skipping")
		return
	}

	it.agg.RecordFaint(side, nickname)
}

// Resolve projects the accumulated state into the final match record. It is
// a pure read of the components; calling it twice yields identical records.
func (it *Interpreter) Resolve(doc *app.ReplayDocument) app.MatchRecord {
	record := app.MatchRecord{
		ReplayID:   doc.ID,
		Format:     doc.Format,
		UploadTime: doc.UploadTime,
		Winner:     it.winner,
		Turns:      it.turns,
	}

	for _, side := range app.Sides() {
		result := record.Player(side)

		if info, ok := it.players[side]; ok {
			result.Name = info.name
			result.Rating = info.rating
			result.TeamSize = info.teamSize
		}

		if lead, ok := it.roster.Lead(side); ok {
			result.Lead = lead
		}
		result.Team = append([]string(nil), it.roster.Roster(side)...)

		for _, nickname := range it.roster.Nicknames(side) {
			stats, ok := it.agg.Totals(side, nickname)
			if !ok {
				stats = app.CombatantStats{
					Side:     side,
					Nickname: nickname,
					Moves:    map[string]int{},
				}
			}
			stats.Species, _ = it.roster.Species(side, nickname)
			record.Combatants = append(record.Combatants, stats)
		}
	}

	return record
}
