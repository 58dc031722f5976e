package battle

import (
	"fmt"
	"strconv"
	"strings"

	"showdown_stats/internal/app"
)

// ParsePosition parses a position header such as "p1a: Zapdos" into the side
// and the nickname. Some headers carry a prefix, e.g. "[of] p2a: Starmie";
// the side token is the last space-separated word before the first colon.
func ParsePosition(s string) (app.Side, string, error) {
	head, nick, found := strings.Cut(s, ":")
	if !found {
		return "", "", fmt.Errorf("position %q has no side separator", s)
	}

	tokens := strings.Fields(head)
	if len(tokens) == 0 {
		return "", "", fmt.Errorf("position %q has no side token", s)
	}

	slot := tokens[len(tokens)-1]
	if len(slot) < 2 {
		return "", "", fmt.Errorf("position %q has malformed side token %q", s, slot)
	}

	side := app.Side(slot[:2])
	if side != app.SideP1 && side != app.SideP2 {
		return "", "", fmt.Errorf("position %q references unknown side %q", s, slot[:2])
	}

	nickname := strings.TrimSpace(nick)
	if nickname == "" {
		return "", "", fmt.Errorf("position %q has empty nickname", s)
	}

	return side, nickname, nil
}

// ParseHP parses a health payload such as "60/100", "0 fnt" or "45/100 par".
// It returns the current health value and whether the payload carries the
// faint marker.
func ParseHP(s string) (int, bool, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return 0, false, fmt.Errorf("empty health payload")
	}

	current := tokens[0]
	if slash := strings.Index(current, "/"); slash >= 0 {
		current = current[:slash]
	}

	hp, err := strconv.Atoi(current)
	if err != nil {
		return 0, false, fmt.Errorf("health payload %q is not numeric: %w", s, err)
	}

	fainted := strings.Contains(s, "fnt")
	return hp, fainted, nil
}

// SpeciesOf extracts the species name from a details payload such as
// "Zapdos, L88" or "Skarmory, M". The species is always the first
// comma-separated segment.
func SpeciesOf(details string) string {
	species, _, _ := strings.Cut(details, ",")
	return strings.TrimSpace(species)
}
