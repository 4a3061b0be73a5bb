// =============================================================================
// Portfolio Ledger - Reconciliation Types
// =============================================================================
//
// Types shared across the reconciliation engine and its artifact writers:
// the aggregate input rows loaded from the ledger, the classified output
// rows, and the category/action vocabulary both artifacts use.
//
// =============================================================================

package reconcile

import "github.com/shopspring/decimal"

// Categories assigned by the engine.
const (
	CategoryCorporateAction = "CORPORATE_ACTION"
	CategoryCDAggregate     = "CD_AGGREGATE"
	CategoryCPAggregate     = "CP_AGGREGATE"
	CategoryTBillAggregate  = "TBILL_AGGREGATE"
	CategoryGSecAggregate   = "GSEC_AGGREGATE"
	CategoryNoAction        = "NO_ACTION"
)

// Actions attached to classified rows. Only MAP and AGGREGATE rows make it
// into the reduced mapping table; TARGET and NONE rows exist for audit.
const (
	ActionMap       = "MAP"
	ActionTarget    = "TARGET"
	ActionAggregate = "AGGREGATE"
	ActionNone      = "NONE"
)

// Input is one aggregate holdings row loaded from the ledger: a distinct
// identifier with its display name and value summed across all fund-periods.
type Input struct {
	ISIN        string
	Name        string
	MarketValue decimal.Decimal

	// FundCount and Periods describe where the identifier appears; carried
	// through to the audit file for reviewer context, never used by rules.
	FundCount int
	Periods   string
}

// Row is one classified record. Every input that lands in any category
// produces exactly one Row; inputs in no category produce none.
type Row struct {
	NameCut      string
	Category     string
	Action       string
	Reason       string
	ISINOriginal string
	ISINMapped   string
	NameOriginal string
	NameMapped   string
	MarketValue  decimal.Decimal
	IssuerCode   string
	IsTarget     bool
}

// Result is the full partition produced by one engine run.
type Result struct {
	CorporateActions []Row
	CDAggregates     []Row
	CPAggregates     []Row
	TBillAggregates  []Row
	GSecAggregates   []Row
	NoAction         []Row

	// All holds every classified row in emission order, for the audit file.
	All []Row
}

// MappingRows returns the reduced set consumed by extraction: MAP and
// AGGREGATE actions only, in the same category order the mapping artifact
// uses.
func (r *Result) MappingRows() []Row {
	var rows []Row
	for _, row := range r.CorporateActions {
		if row.Action == ActionMap {
			rows = append(rows, row)
		}
	}
	rows = append(rows, r.CDAggregates...)
	rows = append(rows, r.CPAggregates...)
	rows = append(rows, r.TBillAggregates...)
	rows = append(rows, r.GSecAggregates...)
	return rows
}

// Counts summarizes a Result for CLI output.
type Counts struct {
	CorporateMapped  int
	CorporateTargets int
	CDAggregates     int
	CPAggregates     int
	TBillAggregates  int
	GSecAggregates   int
	NoAction         int
	Total            int
}

// Count folds the result into per-category totals.
func (r *Result) Count() Counts {
	c := Counts{
		CDAggregates:    len(r.CDAggregates),
		CPAggregates:    len(r.CPAggregates),
		TBillAggregates: len(r.TBillAggregates),
		GSecAggregates:  len(r.GSecAggregates),
		NoAction:        len(r.NoAction),
		Total:           len(r.All),
	}
	for _, row := range r.CorporateActions {
		if row.Action == ActionTarget {
			c.CorporateTargets++
		} else {
			c.CorporateMapped++
		}
	}
	return c
}
