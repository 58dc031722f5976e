package battle

import "showdown_stats/internal/app"

// combatantTotals accumulates the per-combatant counters. Counters are only
// ever incremented; projection into app.CombatantStats happens at resolve
// time.
type combatantTotals struct {
	moves          map[string]int
	damageDealt    int
	damageReceived int
	statusDealt    int
	statusReceived int
	kosDealt       int
	kosReceived    int
	turnsOnField   int
}

// Aggregator accumulates statistics keyed by (side, nickname). Callers must
// resolve actor and target identities before recording; the aggregator never
// consults battle state itself.
type Aggregator struct {
	totals map[app.Side]map[string]*combatantTotals
}

// NewAggregator creates an empty aggregator for one battle
func NewAggregator() *Aggregator {
	return &Aggregator{
		totals: make(map[app.Side]map[string]*combatantTotals, 2),
	}
}

// getOrCreate is the single place combatant counters come into existence.
func (a *Aggregator) getOrCreate(side app.Side, nickname string) *combatantTotals {
	bySide, ok := a.totals[side]
	if !ok {
		bySide = make(map[string]*combatantTotals)
		a.totals[side] = bySide
	}

	t, ok := bySide[nickname]
	if !ok {
		t = &combatantTotals{moves: make(map[string]int)}
		bySide[nickname] = t
	}
	return t
}

// RecordMove increments the use count for one move
func (a *Aggregator) RecordMove(side app.Side, nickname, move string) {
	a.getOrCreate(side, nickname).moves[move]++
}

// RecordDamage credits a health decrease to the attacker and debits it to
// the victim. A negative delta means multiple effects were misattributed
// between two health readings; it is clamped to zero and no KO is credited
// in that case. When the damage payload carried the faint marker, the
// attacker is credited with the KO here; the victim's own KO count is driven
// by the separate faint event.
func (a *Aggregator) RecordDamage(attackerSide app.Side, attackerNick string, victimSide app.Side, victimNick string, delta int, fainted bool) {
	if delta < 0 {
		delta = 0
		fainted = false
	}

	attacker := a.getOrCreate(attackerSide, attackerNick)
	attacker.damageDealt += delta
	if fainted {
		attacker.kosDealt++
	}

	a.getOrCreate(victimSide, victimNick).damageReceived += delta
}

// RecordStatus credits a status infliction symmetrically
func (a *Aggregator) RecordStatus(attackerSide app.Side, attackerNick string, victimSide app.Side, victimNick string) {
	a.getOrCreate(attackerSide, attackerNick).statusDealt++
	a.getOrCreate(victimSide, victimNick).statusReceived++
}

// RecordFaint credits a knockout to the fainted combatant's received count
func (a *Aggregator) RecordFaint(side app.Side, nickname string) {
	a.getOrCreate(side, nickname).kosReceived++
}

// RecordTurn credits one turn of field presence to a combatant
func (a *Aggregator) RecordTurn(side app.Side, nickname string) {
	a.getOrCreate(side, nickname).turnsOnField++
}

// Totals returns a projection of one combatant's counters, or false if the
// combatant never accrued any.
func (a *Aggregator) Totals(side app.Side, nickname string) (app.CombatantStats, bool) {
	t, ok := a.totals[side][nickname]
	if !ok {
		return app.CombatantStats{}, false
	}

	moves := make(map[string]int, len(t.moves))
	for move, count := range t.moves {
		moves[move] = count
	}

	return app.CombatantStats{
		Side:           side,
		Nickname:       nickname,
		Moves:          moves,
		DamageDealt:    t.damageDealt,
		DamageReceived: t.damageReceived,
		StatusDealt:    t.statusDealt,
		StatusReceived: t.statusReceived,
		KOsDealt:       t.kosDealt,
		KOsReceived:    t.kosReceived,
		TurnsOnField:   t.turnsOnField,
	}, true
}
