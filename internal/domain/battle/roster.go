package battle

import "showdown_stats/internal/app"

// RosterRegistry tracks, per side, which nicknames have been fielded and
// which species they resolve to. Nicknames bind to a species on first sight
// and never rebind; team order is the duplicate-free sequence of species in
// first-appearance order.
type RosterRegistry struct {
	species   map[app.Side]map[string]string
	teamOrder map[app.Side][]string
	nickOrder map[app.Side][]string
}

// NewRosterRegistry creates an empty registry for one battle
func NewRosterRegistry() *RosterRegistry {
	return &RosterRegistry{
		species:   make(map[app.Side]map[string]string, 2),
		teamOrder: make(map[app.Side][]string, 2),
		nickOrder: make(map[app.Side][]string, 2),
	}
}

// Register binds a nickname to a species for a side. The first binding wins:
// a later call with a different species for the same nickname is ignored and
// reported via the return value. A well-formed log never rebinds, but some
// game mechanics (or anomalous logs) can present the same nickname twice.
func (r *RosterRegistry) Register(side app.Side, nickname, species string) (rebound bool) {
	bySide, ok := r.species[side]
	if !ok {
		bySide = make(map[string]string)
		r.species[side] = bySide
	}

	if existing, seen := bySide[nickname]; seen {
		return existing != species
	}

	bySide[nickname] = species
	r.nickOrder[side] = append(r.nickOrder[side], nickname)

	for _, s := range r.teamOrder[side] {
		if s == species {
			return false
		}
	}
	r.teamOrder[side] = append(r.teamOrder[side], species)
	return false
}

// Species resolves a nickname to its bound species
func (r *RosterRegistry) Species(side app.Side, nickname string) (string, bool) {
	species, ok := r.species[side][nickname]
	return species, ok
}

// Lead returns the first species fielded by the side, or false if the side
// has had no entry events.
func (r *RosterRegistry) Lead(side app.Side) (string, bool) {
	order := r.teamOrder[side]
	if len(order) == 0 {
		return "", false
	}
	return order[0], true
}

// Roster returns the side's species in first-appearance order
func (r *RosterRegistry) Roster(side app.Side) []string {
	return r.teamOrder[side]
}

// Nicknames returns the side's nicknames in first-appearance order
func (r *RosterRegistry) Nicknames(side app.Side) []string {
	return r.nickOrder[side]
}
