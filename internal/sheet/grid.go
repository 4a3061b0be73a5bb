// =============================================================================
// Portfolio Ledger - Raw Sheet Grid
// =============================================================================
//
// A Grid is the untyped cell matrix handed to the core pipeline by the
// spreadsheet-reading collaborator: ordered rows of ordered string cells,
// 0-indexed, no header assumed, read-only by convention. Everything the
// schema detector and row extractor know about a disclosure comes from here.
//
// =============================================================================

package sheet

import "strings"

// Grid is a raw sheet: rows by columns of untyped cell text.
type Grid [][]string

// Cell returns the trimmed cell at (row, col), or "" when the coordinates
// fall outside the ragged grid. Publishers emit rows of wildly different
// widths, so out-of-range access is normal, not an error.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Row returns the raw row slice, or nil when out of range.
func (g Grid) Row(row int) []string {
	if row < 0 || row >= len(g) {
		return nil
	}
	return g[row]
}

// RowText joins every non-empty cell of a row with single spaces. The stop
// and skip heuristics match against this concatenation so a "Total" label in
// a non-standard column is still caught.
func (g Grid) RowText(row int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	var parts []string
	for _, cell := range g[row] {
		if c := strings.TrimSpace(cell); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// IsRowEmpty reports whether a row contains only blank cells.
func (g Grid) IsRowEmpty(row int) bool {
	if row < 0 || row >= len(g) {
		return true
	}
	for _, cell := range g[row] {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
