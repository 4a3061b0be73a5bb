// =============================================================================
// Portfolio Ledger - Row Extractor
// =============================================================================
//
// Walks a raw grid from the detected data start and emits candidate holding
// rows, applying the stop/skip rule tables plus two checks that need more
// context than a single row:
//
//   - Reverse-repo disambiguation. A row named exactly "Reverse Repo" with no
//     valid identifier is either a real cash-equivalent line or a subtotal
//     header over dated children ("Reverse Repo (03-Jan-2026)" etc). The next
//     row with a non-zero market value decides: extra detail after "reverse
//     repo" means children follow and the bare row is a subtotal.
//
//   - Zero market value. Publishers pad sheets with zero-valued placeholder
//     lines; those are dropped after parsing.
//
// The walk also folds the running sum of accepted market values, which the
// validation report later compares against the declared control total.
//
// =============================================================================

package extract

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/schema"
	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

// ExtractRows walks g from s.DataStartRow and returns the accepted candidate
// rows in sheet order, plus the sum of their market values.
func ExtractRows(g sheet.Grid, s schema.Schema, log *zap.SugaredLogger) ([]Candidate, decimal.Decimal) {
	var (
		rows  []Candidate
		total = decimal.Zero
	)

	for i := s.DataStartRow; i < len(g); i++ {
		name := g.Cell(i, s.NameCol)
		id := g.Cell(i, s.ISINCol)
		ctx := newRowContext(name, id, g.Cell(i, 0), g.RowText(i))

		action, ruleName := classify(ctx)
		if action == ActionStop {
			log.Debugw("extraction stopped", "row", i, "rule", ruleName)
			break
		}
		if action == ActionSkip {
			log.Debugw("row skipped", "row", i, "rule", ruleName)
			continue
		}

		if ctx.name == "reverse repo" && !ctx.validID && reverseRepoIsSubtotal(g, s, i) {
			log.Debugw("row skipped", "row", i, "rule", "reverse-repo subtotal")
			continue
		}

		mv, ok := sheet.ParseNumber(g.Cell(i, s.ValueCol))
		if !ok || mv.IsZero() {
			continue
		}

		qty, ok := sheet.ParseNumber(g.Cell(i, s.QuantityCol))
		if !ok {
			qty = decimal.Zero
		}

		rows = append(rows, Candidate{
			ISINOriginal: id,
			Name:         name,
			MarketValue:  mv,
			Quantity:     qty,
			SheetRow:     i,
		})
		total = total.Add(mv)
	}

	return rows, total
}

// reverseRepoIsSubtotal looks ahead from row i to the next row carrying a
// non-zero market value. Only that one row is consulted: a child line starts
// with "reverse repo" plus extra detail, anything else means the bare row
// stands alone.
func reverseRepoIsSubtotal(g sheet.Grid, s schema.Schema, i int) bool {
	for j := i + 1; j < len(g); j++ {
		mv, ok := sheet.ParseNumber(g.Cell(j, s.ValueCol))
		if !ok || mv.IsZero() {
			continue
		}
		next := strings.ToLower(g.Cell(j, s.NameCol))
		return strings.HasPrefix(next, "reverse repo") && strings.TrimSpace(next) != "reverse repo"
	}
	return false
}
