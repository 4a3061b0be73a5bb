// =============================================================================
// Portfolio Ledger - Grand Total Locator
// =============================================================================
//
// Finds the publisher-declared control total in a raw sheet. Three labelling
// conventions are in the wild:
//
//   1. "Grand Total" anywhere in the row text (most publishers); the value
//      is read from the market-value column of that row.
//   2. "Total Net Assets" anywhere in the row text; the value is the first
//      numeric cell in the row above the materiality floor, since the value
//      may sit in a non-standard column next to percentage fields.
//   3. A first cell of exactly "total" (avoids matching "Sub Total"); value
//      found as in 2.
//
// Absence is legal, not an error: older filings omit a labelled total and
// downstream validation reports that as an informational status.
//
// =============================================================================

package schema

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

// materialityFloor filters out percentage and ratio cells when scanning a
// total row for its value.
var materialityFloor = decimal.NewFromInt(10000)

// LocateGrandTotal scans every row for a declared control total and returns
// the first match in row order. found is false when no convention matches.
func LocateGrandTotal(g sheet.Grid, valueCol int) (row int, total decimal.Decimal, found bool) {
	for i := range g {
		text := strings.ToLower(g.RowText(i))

		if strings.Contains(text, "grand total") {
			if v, ok := sheet.ParseNumber(g.Cell(i, valueCol)); ok {
				return i, v, true
			}
			// Value column empty or non-numeric on this row; keep scanning.
		}

		if strings.Contains(text, "total net assets") {
			if v, ok := firstLargeNumber(g.Row(i)); ok {
				return i, v, true
			}
		}

		if strings.ToLower(g.Cell(i, 0)) == "total" {
			if v, ok := firstLargeNumber(g.Row(i)); ok {
				return i, v, true
			}
		}
	}
	return 0, decimal.Zero, false
}

// firstLargeNumber returns the first numeric cell above the materiality
// floor, left to right.
func firstLargeNumber(row []string) (decimal.Decimal, bool) {
	for _, cell := range row {
		if v, ok := sheet.ParseNumber(cell); ok && v.GreaterThan(materialityFloor) {
			return v, true
		}
	}
	return decimal.Zero, false
}
