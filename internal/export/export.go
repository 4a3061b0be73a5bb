// =============================================================================
// Portfolio Ledger - Holdings CSV Export
// =============================================================================
//
// Pipe-delimited export of one fund-period's persisted holdings, in the
// fixed downstream column order. Pipe, not comma, because instrument names
// are full of commas and the downstream loader does not unquote.
//
// =============================================================================

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/portfolio-ledger/internal/extract"
)

// Delimiter separates export fields.
const Delimiter = "|"

var header = []string{
	"SCHEME_NAME", "MONTH_END", "ISIN_ORIGINAL", "ISIN_ASSIGNED", "INSTRUMENT_NAME",
	"MARKET_VALUE", "QUANTITY", "NSE_SYMBOL", "NAME_REGISTRY", "NAME_FINAL",
	"ISIN_MAPPED", "NAME_MAPPED", "MAPPING_CATEGORY", "MAPPING_REASON",
}

// Render builds the export content for one fund-period.
func Render(rows []extract.HoldingRow, fundCode, monthEnd string) string {
	scheme := strings.ToUpper(fundCode)
	lines := []string{strings.Join(header, Delimiter)}

	for _, r := range rows {
		lines = append(lines, strings.Join([]string{
			scheme,
			monthEnd,
			r.ISINOriginal,
			r.ISINAssigned,
			r.InstrumentName,
			r.MarketValue.String(),
			r.Quantity.String(),
			r.NSESymbol,
			r.NameRegistry,
			r.DisplayName,
			r.ISINMapped,
			r.NameMapped,
			r.MappingCategory,
			r.MappingReason,
		}, Delimiter))
	}

	return strings.Join(lines, "\n") + "\n"
}

// Write renders and writes the export to dir as <FUNDCODE>_<monthEnd>.csv,
// returning the file path.
func Write(rows []extract.HoldingRow, fundCode, monthEnd, dir string) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", strings.ToUpper(fundCode), monthEnd))
	if err := os.WriteFile(path, []byte(Render(rows, fundCode, monthEnd)), 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
