package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"showdown_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// CSVExporter appends match and combatant rows to a pair of CSV files.
// Headers are written once, when the target file does not exist yet. Appends
// are serialized with a mutex so concurrent batches never interleave.
type CSVExporter struct {
	matchPath     string
	combatantPath string
	mu            sync.Mutex
}

// NewCSVExporter creates an exporter writing match rows to outputFile and
// combatant rows to a sibling file with a _combatants suffix.
func NewCSVExporter(outputFile string) *CSVExporter {
	base := strings.TrimSuffix(outputFile, ".csv")
	return &CSVExporter{
		matchPath:     outputFile,
		combatantPath: base + "_combatants.csv",
	}
}

// Paths returns the match and combatant file paths in that order
func (e *CSVExporter) Paths() []string {
	return []string{e.matchPath, e.combatantPath}
}

// Truncate removes any previous output so a fresh run starts clean
func (e *CSVExporter) Truncate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, path := range []string{e.matchPath, e.combatantPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// Append writes one batch of match records to both files
func (e *CSVExporter) Append(ctx context.Context, records []app.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	matchRows := make([][]string, 0, len(records))
	var combatantRows [][]string
	for _, record := range records {
		matchRows = append(matchRows, MatchRow(record))
		combatantRows = append(combatantRows, CombatantRows(record)...)
	}

	if err := appendRows(e.matchPath, MatchHeader(), matchRows); err != nil {
		return err
	}
	if err := appendRows(e.combatantPath, CombatantHeader(), combatantRows); err != nil {
		return err
	}

	log.Debug().
		Int("matches", len(matchRows)).
		Int("combatants", len(combatantRows)).
		Str("file", e.matchPath).
		Msg("Appended records to CSV output")

	return nil
}

// appendRows appends rows to a CSV file, writing the header first when the
// file is created by this call.
func appendRows(path string, header []string, rows [][]string) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", path, err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}

	w.Flush()
	return w.Error()
}
