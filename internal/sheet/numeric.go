package sheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber interprets a cell as a decimal value. Thousands separators are
// tolerated because excelize returns formatted cell text for some styles.
// Returns false for blank or non-numeric cells; callers decide whether that
// means "zero" (data cells) or "keep scanning" (control-total search).
func ParseNumber(cell string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
