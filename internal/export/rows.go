package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"showdown_stats/internal/app"
)

// MatchHeader returns the column names for match rows
func MatchHeader() []string {
	return []string{
		"replay_id", "format", "uploadtime",
		"p1_name", "p1_rating", "p1_teamsize", "p1_lead", "p1_team",
		"p2_name", "p2_rating", "p2_teamsize", "p2_lead", "p2_team",
		"winner", "turns",
	}
}

// MatchRow flattens one match record into a row of strings
func MatchRow(record app.MatchRecord) []string {
	row := []string{
		record.ReplayID,
		record.Format,
		strconv.FormatInt(record.UploadTime, 10),
	}
	for _, side := range app.Sides() {
		player := record.Player(side)
		row = append(row,
			stringOrEmpty(player.Name),
			intOrEmpty(player.Rating),
			intOrEmpty(player.TeamSize),
			player.Lead,
			strings.Join(player.Team, ";"),
		)
	}

	winner := ""
	if record.Winner != nil {
		winner = string(*record.Winner)
	}
	return append(row, winner, strconv.Itoa(record.Turns))
}

// CombatantHeader returns the column names for per-combatant rows
func CombatantHeader() []string {
	return []string{
		"replay_id", "side", "nickname", "species", "moves",
		"damage_dealt", "damage_received",
		"status_dealt", "status_received",
		"kos_dealt", "kos_received", "turns_on_field",
	}
}

// CombatantRows flattens one match record into one row per combatant
func CombatantRows(record app.MatchRecord) [][]string {
	rows := make([][]string, 0, len(record.Combatants))
	for _, c := range record.Combatants {
		rows = append(rows, []string{
			record.ReplayID,
			string(c.Side),
			c.Nickname,
			c.Species,
			formatMoves(c.Moves),
			strconv.Itoa(c.DamageDealt),
			strconv.Itoa(c.DamageReceived),
			strconv.Itoa(c.StatusDealt),
			strconv.Itoa(c.StatusReceived),
			strconv.Itoa(c.KOsDealt),
			strconv.Itoa(c.KOsReceived),
			strconv.Itoa(c.TurnsOnField),
		})
	}
	return rows
}

// formatMoves renders a move count mapping as "move:count" pairs, sorted by
// move name so identical inputs always serialize identically.
func formatMoves(moves map[string]int) string {
	names := make([]string, 0, len(moves))
	for name := range moves {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s:%d", name, moves[name]))
	}
	return strings.Join(pairs, ";")
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
