// =============================================================================
// Portfolio Ledger - Name Resolution
// =============================================================================
//
// Resolves the display name and reconciliation mapping for each candidate
// row. Name precedence is registry name, then the fixed cash label, then the
// instrument name as printed on the sheet; the registry name is kept in its
// own field untouched by fallbacks so its provenance stays clean.
//
// The mapping table is the reduced reconciliation output (MAP and AGGREGATE
// rows only). Rows without an entry default to mapping onto themselves; cash
// rows without an entry get the fixed cash-aggregate annotation.
//
// =============================================================================

package extract

import "github.com/ginjaninja78/portfolio-ledger/internal/isin"

// RegistryEntry is what the identifier registry knows about one identifier.
type RegistryEntry struct {
	Name      string
	NSESymbol string
}

// Registry resolves identifiers to registry names and exchange symbols.
// Lookups are by assigned identifier, so synthetic codes simply miss.
type Registry interface {
	Lookup(id string) (RegistryEntry, bool)
}

// Mapping is one reconciliation directive: report the row under a different
// identifier and name.
type Mapping struct {
	ISINMapped string
	NameMapped string
	Category   string
	Reason     string
}

// MappingTable indexes mappings by the identifier they apply to.
type MappingTable map[string]Mapping

// Annotation applied to unmapped cash rows.
const (
	cashMappingCategory = "CASH_AGGREGATE"
	cashMappingReason   = "Cash, TREPS, repos, futures, and other non-ISIN items consolidated under synthetic ISIN"
)

// Resolver turns candidates into fully-resolved holding rows.
type Resolver struct {
	registry Registry
	mappings MappingTable
}

// NewResolver builds a Resolver. Both collaborators may be nil, which
// behaves as an empty registry and an empty mapping table.
func NewResolver(registry Registry, mappings MappingTable) *Resolver {
	return &Resolver{registry: registry, mappings: mappings}
}

// Resolve assigns the identifier and resolves names and mapping for one
// candidate row.
func (r *Resolver) Resolve(c Candidate) HoldingRow {
	assigned := Assign(c.ISINOriginal)

	var entry RegistryEntry
	if r.registry != nil {
		entry, _ = r.registry.Lookup(assigned)
	}

	display := entry.Name
	if display == "" {
		if assigned == isin.Cash {
			display = isin.CashDisplayName
		} else {
			display = c.Name
		}
	}

	row := HoldingRow{
		ISINOriginal:   c.ISINOriginal,
		ISINAssigned:   assigned,
		InstrumentName: c.Name,
		MarketValue:    c.MarketValue,
		Quantity:       c.Quantity,
		NSESymbol:      entry.NSESymbol,
		NameRegistry:   entry.Name,
		DisplayName:    display,
		ISINMapped:     assigned,
		NameMapped:     display,
	}

	if m, ok := r.mappings[assigned]; ok {
		if m.ISINMapped != "" {
			row.ISINMapped = m.ISINMapped
		}
		if m.NameMapped != "" {
			row.NameMapped = m.NameMapped
		}
		row.MappingCategory = m.Category
		row.MappingReason = m.Reason
	}

	if assigned == isin.Cash && row.MappingCategory == "" {
		row.MappingCategory = cashMappingCategory
		row.MappingReason = cashMappingReason
	}

	return row
}
