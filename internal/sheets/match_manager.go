package sheets

import (
	"context"
	"fmt"

	"showdown_stats/internal/app"
	"showdown_stats/internal/export"

	"github.com/rs/zerolog/log"
)

// Tab names for the two record layouts
const (
	MatchesTabName    = "Matches"
	CombatantsTabName = "Combatants"
)

// MatchSheetsManager publishes interpreted match records to a spreadsheet,
// mirroring the CSV layout: one tab with a row per match, one with a row per
// combatant.
type MatchSheetsManager struct {
	api           SheetsAPI
	spreadsheetID string
}

// NewMatchSheetsManager creates a manager for the given spreadsheet
func NewMatchSheetsManager(api SheetsAPI, spreadsheetID string) *MatchSheetsManager {
	return &MatchSheetsManager{
		api:           api,
		spreadsheetID: spreadsheetID,
	}
}

// EnsureSheets creates the match and combatant tabs with their header rows
// if they don't exist yet.
func (m *MatchSheetsManager) EnsureSheets(ctx context.Context) error {
	if err := m.ensureSheet(ctx, MatchesTabName, export.MatchHeader()); err != nil {
		return err
	}
	return m.ensureSheet(ctx, CombatantsTabName, export.CombatantHeader())
}

func (m *MatchSheetsManager) ensureSheet(ctx context.Context, tabName string, header []string) error {
	exists, err := m.api.SheetExists(ctx, m.spreadsheetID, tabName)
	if err != nil {
		return fmt.Errorf("failed to check if sheet %s exists: %w", tabName, err)
	}
	if exists {
		return nil
	}

	log.Info().
		Str("sheet_name", tabName).
		Msg("Creating records sheet")

	if err := m.api.CreateSheet(ctx, m.spreadsheetID, tabName); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", tabName, err)
	}

	headerRange := fmt.Sprintf("%s!A1", tabName)
	if err := m.api.UpdateRange(ctx, m.spreadsheetID, headerRange, toInterfaceRows([][]string{header})); err != nil {
		return fmt.Errorf("failed to initialize sheet %s: %w", tabName, err)
	}

	return nil
}

// Append publishes one batch of match records to both tabs
func (m *MatchSheetsManager) Append(ctx context.Context, records []app.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	matchRows := make([][]string, 0, len(records))
	var combatantRows [][]string
	for _, record := range records {
		matchRows = append(matchRows, export.MatchRow(record))
		combatantRows = append(combatantRows, export.CombatantRows(record)...)
	}

	matchRange := fmt.Sprintf("%s!A1", MatchesTabName)
	if err := m.api.AppendRows(ctx, m.spreadsheetID, matchRange, toInterfaceRows(matchRows)); err != nil {
		return fmt.Errorf("failed to append match rows: %w", err)
	}

	combatantRange := fmt.Sprintf("%s!A1", CombatantsTabName)
	if err := m.api.AppendRows(ctx, m.spreadsheetID, combatantRange, toInterfaceRows(combatantRows)); err != nil {
		return fmt.Errorf("failed to append combatant rows: %w", err)
	}

	log.Debug().
		Int("matches", len(matchRows)).
		Int("combatants", len(combatantRows)).
		Msg("Appended records to spreadsheet")

	return nil
}

// toInterfaceRows converts string rows to the [][]interface{} shape the
// Sheets API requires.
func toInterfaceRows(rows [][]string) [][]interface{} {
	converted := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		converted[i] = cells
	}
	return converted
}
