package sheets

import (
	"context"
)

// SheetsAPI defines the interface for interacting with Google Sheets.
// This separates infrastructure concerns from business logic.
//
// The Google Sheets API (google.golang.org/api/sheets/v4) uses
// [][]interface{} for cell values; that usage stays constrained to this
// boundary layer.
type SheetsAPI interface {
	// UpdateRange updates values in a sheet range
	UpdateRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error

	// AppendRows appends rows to a sheet
	AppendRows(ctx context.Context, spreadsheetID, range_ string, rows [][]interface{}) error

	// CreateSheet creates a new sheet in the spreadsheet
	CreateSheet(ctx context.Context, spreadsheetID, sheetName string) error

	// SheetExists checks if a sheet with the given name exists
	SheetExists(ctx context.Context, spreadsheetID, sheetName string) (bool, error)
}
