package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"showdown_stats/internal/app"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return rows
}

func TestCSVExporterAppend(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(filepath.Join(dir, "out.csv"))
	ctx := context.Background()

	if err := exporter.Append(ctx, []app.MatchRecord{sampleRecord()}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := exporter.Append(ctx, []app.MatchRecord{sampleRecord()}); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "out.csv"))

	// Header once, then one row per append.
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows (header + 2), got %d", len(rows))
	}
	if rows[0][0] != "replay_id" {
		t.Errorf("Expected header row, got %v", rows[0])
	}
	if rows[1][0] != "gen3ou-12345" || rows[2][0] != "gen3ou-12345" {
		t.Errorf("Unexpected data rows: %v / %v", rows[1], rows[2])
	}

	combatantRows := readCSV(t, filepath.Join(dir, "out_combatants.csv"))
	if len(combatantRows) != 3 {
		t.Fatalf("Expected 3 combatant rows (header + 2), got %d", len(combatantRows))
	}
}

func TestCSVExporterEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(filepath.Join(dir, "out.csv"))

	if err := exporter.Append(context.Background(), nil); err != nil {
		t.Fatalf("Append of empty batch failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "out.csv")); !os.IsNotExist(err) {
		t.Error("Empty batch must not create output files")
	}
}

func TestCSVExporterTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	exporter := NewCSVExporter(path)
	ctx := context.Background()

	if err := exporter.Append(ctx, []app.MatchRecord{sampleRecord()}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := exporter.Truncate(); err != nil {
		t.Fatalf("Truncate failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected output removed after truncate")
	}

	// Truncating absent files is fine.
	if err := exporter.Truncate(); err != nil {
		t.Fatalf("Truncate of absent files failed: %v", err)
	}
}
