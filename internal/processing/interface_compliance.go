package processing

import (
	"showdown_stats/internal/export"
	"showdown_stats/internal/sheets"
	"showdown_stats/internal/showdown"
	"showdown_stats/internal/store"
)

// Compile-time interface compliance checks
// These will cause compilation errors if the types don't implement the interfaces

var (
	_ ReplayClientInterface = (*showdown.Client)(nil)
	_ ReplayStoreInterface  = (*store.ReplayStore)(nil)
	_ RecordWriterInterface = (*export.CSVExporter)(nil)
	_ RecordWriterInterface = (*sheets.MatchSheetsManager)(nil)
)
