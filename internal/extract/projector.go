// =============================================================================
// Portfolio Ledger - Holdings Projector
// =============================================================================
//
// Glues the pipeline stages together for one sheet: extract candidate rows,
// assign identifiers, resolve names and mappings, and fold the summary the
// CLI prints per fund-period.
//
// =============================================================================

package extract

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/isin"
	"github.com/ginjaninja78/portfolio-ledger/internal/schema"
	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
)

// Projection is the complete result of projecting one sheet.
type Projection struct {
	Rows          []HoldingRow
	ComputedTotal decimal.Decimal
	Summary       Summary

	// Unmapped lists valid identifiers the registry did not know, so the
	// operator can refresh the registry download.
	Unmapped []UnmappedISIN
}

// Summary is the per-sheet fold printed after ingest.
type Summary struct {
	Rows              int
	ValidISINs        int
	CashRows          int
	UnknownToRegistry int
	ComputedTotal     decimal.Decimal

	// Assigned breaks down rows whose printed identifier was invalid, by
	// the code they were assigned, sorted by code.
	Assigned []AssignedBucket
}

// AssignedBucket summarizes one assigned code: how many rows landed in it,
// their combined market value, and up to three sample names.
type AssignedBucket struct {
	ISIN        string
	Count       int
	MarketValue decimal.Decimal
	Names       []string
}

// Projector runs the full extraction pipeline over raw grids.
type Projector struct {
	resolver *Resolver
	log      *zap.SugaredLogger
}

// NewProjector builds a Projector over the given registry and mapping table.
func NewProjector(registry Registry, mappings MappingTable, log *zap.SugaredLogger) *Projector {
	return &Projector{
		resolver: NewResolver(registry, mappings),
		log:      log,
	}
}

// Project extracts and resolves every holding row of one sheet.
func (p *Projector) Project(g sheet.Grid, s schema.Schema) Projection {
	candidates, total := ExtractRows(g, s, p.log)

	proj := Projection{
		ComputedTotal: total,
		Summary:       Summary{ComputedTotal: total},
	}

	buckets := map[string]*AssignedBucket{}
	for _, c := range candidates {
		row := p.resolver.Resolve(c)
		proj.Rows = append(proj.Rows, row)

		proj.Summary.Rows++
		if !isin.IsValid(strings.TrimSpace(row.ISINOriginal)) {
			b := buckets[row.ISINAssigned]
			if b == nil {
				b = &AssignedBucket{ISIN: row.ISINAssigned}
				buckets[row.ISINAssigned] = b
			}
			b.Count++
			b.MarketValue = b.MarketValue.Add(row.MarketValue)
			if len(b.Names) < 3 {
				b.Names = append(b.Names, row.InstrumentName)
			}
		}
		if row.ISINAssigned == isin.Cash {
			proj.Summary.CashRows++
			continue
		}
		proj.Summary.ValidISINs++
		if row.NameRegistry == "" {
			proj.Summary.UnknownToRegistry++
			proj.Unmapped = append(proj.Unmapped, UnmappedISIN{ISIN: row.ISINAssigned, Name: row.InstrumentName})
		}
	}

	codes := make([]string, 0, len(buckets))
	for code := range buckets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		proj.Summary.Assigned = append(proj.Summary.Assigned, *buckets[code])
	}

	return proj
}
