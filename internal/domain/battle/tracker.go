package battle

import "showdown_stats/internal/app"

// ActiveState records the combatant currently fielded for one side, with its
// last observed health. The active combatant is the implicit subject or
// object of events that do not restate who acted.
type ActiveState struct {
	Nickname string
	HP       int
}

// ActiveTracker maintains the per-side active combatant over one battle.
// It must be updated strictly in event order; later events resolve their
// implicit identities against whatever the tracker holds at that instant.
type ActiveTracker struct {
	active map[app.Side]ActiveState
}

// NewActiveTracker creates an empty tracker for one battle
func NewActiveTracker() *ActiveTracker {
	return &ActiveTracker{
		active: make(map[app.Side]ActiveState, 2),
	}
}

// OnEntry records a combatant entering the field, overwriting whatever was
// active for that side.
func (t *ActiveTracker) OnEntry(side app.Side, nickname string, hp int) {
	t.active[side] = ActiveState{Nickname: nickname, HP: hp}
}

// OnHealthChange updates the active combatant's health, preserving its
// nickname. No-op when the side has no active combatant yet.
func (t *ActiveTracker) OnHealthChange(side app.Side, hp int) {
	state, ok := t.active[side]
	if !ok {
		return
	}
	state.HP = hp
	t.active[side] = state
}

// Current returns the active combatant for the side, if any
func (t *ActiveTracker) Current(side app.Side) (ActiveState, bool) {
	state, ok := t.active[side]
	return state, ok
}
