// =============================================================================
// Portfolio Ledger - Extraction Types
// =============================================================================
//
// Shared types for the extraction pipeline: the candidate rows produced by
// the row extractor and the fully-resolved holding rows the projector emits
// for persistence. Both are immutable once built.
//
// =============================================================================

package extract

import "github.com/shopspring/decimal"

// Candidate is a raw data row that survived the stop/skip heuristics and is
// awaiting identifier assignment and name resolution.
type Candidate struct {
	// ISINOriginal is the identifier cell text as read, possibly blank or
	// malformed.
	ISINOriginal string

	// Name is the instrument name cell text as read.
	Name string

	// MarketValue is the parsed market value; always non-zero (zero-valued
	// placeholder lines are dropped during extraction).
	MarketValue decimal.Decimal

	// Quantity is the parsed quantity; zero when blank or non-numeric.
	Quantity decimal.Decimal

	// SheetRow is the 0-indexed source row, kept for diagnostics.
	SheetRow int
}

// HoldingRow is one accepted holding, fully resolved and ready to persist.
type HoldingRow struct {
	// ISINOriginal is the identifier as read from the sheet.
	ISINOriginal string

	// ISINAssigned is ISINOriginal when valid, otherwise the synthetic cash
	// code. Never empty.
	ISINAssigned string

	// InstrumentName is the name as read from the sheet.
	InstrumentName string

	MarketValue decimal.Decimal
	Quantity    decimal.Decimal

	// NSESymbol and NameRegistry come from the identifier registry; empty
	// when the identifier is unknown to it.
	NSESymbol    string
	NameRegistry string

	// DisplayName is the resolved display name: registry name first, then
	// the fixed cash label, then the sheet name.
	DisplayName string

	// Reconciliation mapping, defaulted to the assigned identifier and
	// display name when no mapping exists yet.
	ISINMapped      string
	NameMapped      string
	MappingCategory string
	MappingReason   string
}

// UnmappedISIN records a valid identifier the registry did not know,
// surfaced in the ingest summary so the registry can be refreshed.
type UnmappedISIN struct {
	ISIN string
	Name string
}
