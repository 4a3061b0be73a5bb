// =============================================================================
// Portfolio Ledger - Schema Detector
// =============================================================================
//
// Infers a Schema from an untyped grid. Every publisher lays its disclosure
// out differently, but all of them label the identifier column with some
// "ISIN" wording, so detection anchors on that:
//
//   1. Scan rows top-down for the first row containing an "isin" cell.
//      That row is the header.
//   2. Classify the header's cells into column roles by keyword. First match
//      wins per role; later matches for an already-claimed role are ignored.
//   3. The data start is the first row below the header whose identifier
//      cell starts with "IN" (case-sensitive). Blank and label rows between
//      header and data are common and skipped by this anchor.
//   4. The declared control total, if any, is located separately (§ grand
//      total locator) and recorded on the Schema.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

// Keyword tables for column-role classification. Evaluated in order; the
// identifier check runs first so a header like "ISIN Security Name" claims
// the identifier role, not the name role.
var (
	nameKeywords     = []string{"instrument", "name of", "security", "company"}
	valueKeywords    = []string{"market", "fair value", "nav", "value"}
	quantityKeywords = []string{"quantity", "qty", "units", "nos"}
)

// Detect infers the Schema for one sheet. It fails with ErrNoISINHeader when
// no row carries an "isin" cell, and with ErrNoDataStart when no IN-prefixed
// identifier appears below the header.
func Detect(g sheet.Grid) (Schema, error) {
	headerRow := -1
	for i := range g {
		for _, cell := range g.Row(i) {
			if strings.Contains(strings.ToLower(cell), "isin") {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return Schema{}, fmt.Errorf("schema detection: %w", ErrNoISINHeader)
	}

	s := Schema{
		ISINCol:       NoColumn,
		NameCol:       NoColumn,
		ValueCol:      NoColumn,
		QuantityCol:   NoColumn,
		GrandTotalRow: NoColumn,
	}

	for col, cell := range g.Row(headerRow) {
		text := strings.ToLower(strings.TrimSpace(cell))
		if text == "" {
			continue
		}
		switch {
		case strings.Contains(text, "isin"):
			if s.ISINCol == NoColumn {
				s.ISINCol = col
			}
		case containsAny(text, nameKeywords):
			if s.NameCol == NoColumn {
				s.NameCol = col
			}
		case containsAny(text, valueKeywords) && !strings.Contains(text, "net"):
			// "net" excludes "Net Asset Value %" style percentage columns.
			if s.ValueCol == NoColumn {
				s.ValueCol = col
			}
		case containsAny(text, quantityKeywords):
			if s.QuantityCol == NoColumn {
				s.QuantityCol = col
			}
		}
	}

	if s.ISINCol == NoColumn {
		return Schema{}, fmt.Errorf("schema detection: %w", ErrNoISINHeader)
	}

	s.DataStartRow = -1
	for i := headerRow + 1; i < len(g); i++ {
		if strings.HasPrefix(g.Cell(i, s.ISINCol), "IN") {
			s.DataStartRow = i
			break
		}
	}
	if s.DataStartRow < 0 {
		return Schema{}, fmt.Errorf("schema detection: %w", ErrNoDataStart)
	}

	if row, total, found := LocateGrandTotal(g, s.ValueCol); found {
		s.GrandTotalRow = row
		s.GrandTotal = total
		s.HasGrandTotal = true
	}

	return s, nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
