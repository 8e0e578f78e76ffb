// Package tables defines the row-level contract the ledger depends on: a
// named, appendable, insertable, row-addressable grid of string cells.
package tables

import "context"

type (
	// Table is one named worksheet-like grid. Row and column indexes are
	// 1-based, matching spreadsheet addressing.
	Table interface {
		// Rows returns every row in physical order, header included.
		Rows(ctx context.Context) ([][]string, error)

		// Records returns the data rows keyed by the header row.
		Records(ctx context.Context) ([]map[string]string, error)

		// Append adds a row after the last non-empty row.
		Append(ctx context.Context, row []string) error

		// InsertAt inserts a row at the given 1-based position, shifting
		// subsequent rows down.
		InsertAt(ctx context.Context, index int, row []string) error

		// UpdateCell overwrites a single cell.
		UpdateCell(ctx context.Context, row, col int, value string) error
	}

	// Store resolves table handles by title. Lookup reports existence
	// explicitly instead of signalling it through an error.
	Store interface {
		Lookup(ctx context.Context, title string) (Table, bool, error)
		Create(ctx context.Context, title string, rows, cols int) (Table, error)
	}

	// HeaderFormatter is implemented by tables that support cosmetic header
	// styling. Formatting is best-effort: callers log failures and continue.
	HeaderFormatter interface {
		FormatHeader(ctx context.Context) error
	}
)

// RecordsFromRows derives header-keyed records from a raw grid. The first
// row is the header; short data rows read as empty cells, extra cells beyond
// the header are dropped.
func RecordsFromRows(rows [][]string) []map[string]string {
	if len(rows) == 0 {
		return nil
	}
	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// PadRow returns row extended with empty cells up to width.
func PadRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
