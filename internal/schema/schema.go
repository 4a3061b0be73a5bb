// =============================================================================
// Portfolio Ledger - Sheet Schema
// =============================================================================
//
// A Schema locates the holdings table inside a raw disclosure grid: which row
// the data starts on, which columns carry the identifier, name, market value
// and quantity, and (when the publisher declares one) the control total.
//
// Schemas are produced once per sheet by Detect and are immutable afterwards;
// a caller may replace individual column indices with a per-publisher
// override before extraction, for layouts that defeat keyword inference.
//
// =============================================================================

package schema

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Column index value meaning "not detected".
const NoColumn = -1

// Schema describes where the holdings data lives in one sheet.
type Schema struct {
	// DataStartRow is the 0-indexed row where holdings begin: the first row
	// after the header whose identifier cell starts with "IN".
	DataStartRow int

	// Column roles, 0-indexed; NoColumn when the header carried no matching
	// keyword.
	ISINCol     int
	NameCol     int
	ValueCol    int
	QuantityCol int

	// Declared control total, when the publisher labels one.
	GrandTotalRow int // 0-indexed, NoColumn when absent
	GrandTotal    decimal.Decimal
	HasGrandTotal bool
}

// Override replaces detected column indices for publishers whose header
// wording defeats keyword inference. A nil pointer leaves the detected value
// in place; a set pointer replaces it, never merges.
type Override struct {
	ISINCol     *int `yaml:"isin_col,omitempty"`
	NameCol     *int `yaml:"name_col,omitempty"`
	ValueCol    *int `yaml:"market_value_col,omitempty"`
	QuantityCol *int `yaml:"quantity_col,omitempty"`
}

// Apply returns a copy of s with the override's set columns substituted.
func (o *Override) Apply(s Schema) Schema {
	if o == nil {
		return s
	}
	if o.ISINCol != nil {
		s.ISINCol = *o.ISINCol
	}
	if o.NameCol != nil {
		s.NameCol = *o.NameCol
	}
	if o.ValueCol != nil {
		s.ValueCol = *o.ValueCol
	}
	if o.QuantityCol != nil {
		s.QuantityCol = *o.QuantityCol
	}
	return s
}

// Detection failures. A sheet without an ISIN-bearing header row, or without
// any data row anchored under it, cannot be processed at all; the caller
// reports it and moves on, there is no retry.
var (
	ErrNoISINHeader = errors.New("no header row with an ISIN column found")
	ErrNoDataStart  = errors.New("no data row with an IN-prefixed identifier found below the header")
)
