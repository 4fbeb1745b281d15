package sheet

import "context"

// Store is the narrow transport interface the Grouper depends on. It
// abstracts over Google Sheets (or a fake, in tests) and matches the
// four operations spec.md §6 names: listSheets, ensureSheet,
// appendRows and readColumn.
type Store interface {
	// ListSheets returns the worksheet titles currently present in the
	// target spreadsheet.
	ListSheets(ctx context.Context) ([]string, error)

	// EnsureSheet guarantees a worksheet named title exists with header
	// as its first row. If the sheet is missing it is created. If it
	// exists but its header row differs from header case/whitespace-
	// insensitively, the header row is overwritten and every data row
	// below it is cleared (spec.md §6 "sheet preparation").
	EnsureSheet(ctx context.Context, title string, header []string) error

	// AppendRows appends rows to the end of the named worksheet.
	AppendRows(ctx context.Context, title string, rows [][]string) error

	// ReadColumn reads an entire column (1-indexed, "A" style or plain
	// integer) from the named worksheet, top to bottom.
	ReadColumn(ctx context.Context, title, column string) ([]string, error)
}
