// =============================================================================
// Portfolio Ledger - Reconciliation Engine
// =============================================================================
//
// Classifies the distinct identifiers held across all fund-periods into
// reconciliation categories. The passes run in a fixed order and each
// identifier is claimed by at most one pass:
//
//   1. Sovereign paper. GOI treasury bills and dated bonds are recognized by
//      name and pooled under their fixed synthetic identifiers, regardless
//      of issuer structure.
//   2. Name grouping. Remaining identifiers are grouped by the first 7
//      standardized name characters; only groups holding 2+ distinct
//      identifiers go further.
//   3. Within a name group, per issuer code:
//      a. Equity identifiers sharing the full 9-character base prefix differ
//         only by serial: a corporate action. The highest serial is the
//         canonical TARGET, the rest MAP onto it.
//      b. Two or more certificates of deposit aggregate to a per-issuer
//         synthetic identifier; likewise commercial papers.
//   4. Name groups spanning several issuer codes are name collisions between
//      unrelated companies: every unclaimed member is recorded NO_ACTION
//      with its identifier unchanged.
//
// The engine is pure: it never touches the ledger or the filesystem, so one
// input set always yields one output, and re-running it is free.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/isin"
)

// item is one input enriched with its decomposed identifier and grouping
// keys.
type item struct {
	parsed      isin.Parsed
	name        string
	nameCut     string
	marketValue decimal.Decimal
	secCategory string
}

// Engine runs the classification passes.
type Engine struct {
	log *zap.SugaredLogger
}

// NewEngine builds an Engine.
func NewEngine(log *zap.SugaredLogger) *Engine {
	return &Engine{log: log}
}

// Categorize partitions the aggregate rows into reconciliation categories.
// Inputs whose identifier cannot be decomposed are ignored.
func (e *Engine) Categorize(inputs []Input) *Result {
	items := make([]*item, 0, len(inputs))
	for _, in := range inputs {
		parsed, ok := isin.Parse(in.ISIN)
		if !ok {
			e.log.Debugw("identifier too short to decompose, ignored", "isin", in.ISIN)
			continue
		}
		items = append(items, &item{
			parsed:      parsed,
			name:        in.Name,
			nameCut:     nameCut(in.Name),
			marketValue: in.MarketValue,
			secCategory: isin.SecurityCategory(parsed.SecurityType),
		})
	}

	res := &Result{}
	processed := map[string]bool{}

	e.classifySovereign(items, processed, res)
	e.classifyByName(items, processed, res)

	return res
}

// classifySovereign pools GOI paper under the fixed synthetic identifiers.
func (e *Engine) classifySovereign(items []*item, processed map[string]bool, res *Result) {
	for _, it := range items {
		switch detectGOISecurity(it.name) {
		case goiTBill:
			row := Row{
				NameCut:      "governm",
				Category:     CategoryTBillAggregate,
				Action:       ActionAggregate,
				Reason:       "GOI T-Bill, aggregate to synthetic",
				ISINOriginal: it.parsed.Raw,
				ISINMapped:   isin.SyntheticTBill,
				NameOriginal: truncateName(it.name),
				NameMapped:   isin.SyntheticTBillName,
				MarketValue:  it.marketValue,
				IssuerCode:   "GOI",
			}
			res.TBillAggregates = append(res.TBillAggregates, row)
			res.All = append(res.All, row)
			processed[it.parsed.Raw] = true
		case goiGSec:
			row := Row{
				NameCut:      "governm",
				Category:     CategoryGSecAggregate,
				Action:       ActionAggregate,
				Reason:       "GOI G-Sec (dated bond), aggregate to synthetic",
				ISINOriginal: it.parsed.Raw,
				ISINMapped:   isin.SyntheticGSec,
				NameOriginal: truncateName(it.name),
				NameMapped:   isin.SyntheticGSecName,
				MarketValue:  it.marketValue,
				IssuerCode:   "GOI",
			}
			res.GSecAggregates = append(res.GSecAggregates, row)
			res.All = append(res.All, row)
			processed[it.parsed.Raw] = true
		}
	}
}

// classifyByName runs the name-group, issuer and base-prefix passes.
func (e *Engine) classifyByName(items []*item, processed map[string]bool, res *Result) {
	nameGroups := map[string][]*item{}
	for _, it := range items {
		if it.nameCut != "" && !processed[it.parsed.Raw] {
			nameGroups[it.nameCut] = append(nameGroups[it.nameCut], it)
		}
	}

	for _, cut := range sortedKeys(nameGroups) {
		group := nameGroups[cut]
		if len(group) < 2 || distinctISINs(group) < 2 {
			continue
		}

		byIssuer := map[string][]*item{}
		for _, it := range group {
			byIssuer[it.parsed.IssuerCode] = append(byIssuer[it.parsed.IssuerCode], it)
		}

		for _, issuer := range sortedKeys(byIssuer) {
			members := byIssuer[issuer]
			if distinctISINs(members) < 2 {
				continue
			}
			e.classifyCorporateActions(cut, issuer, members, processed, res)
			e.classifyAggregates(cut, issuer, members, isin.CategoryCD, processed, res)
			e.classifyAggregates(cut, issuer, members, isin.CategoryCP, processed, res)
		}

		// A name group spanning issuers is a collision between unrelated
		// companies; record the leftovers so the reviewer sees why nothing
		// was merged.
		if len(byIssuer) > 1 {
			for _, issuer := range sortedKeys(byIssuer) {
				for _, it := range byIssuer[issuer] {
					if processed[it.parsed.Raw] {
						continue
					}
					row := Row{
						NameCut:      cut,
						Category:     CategoryNoAction,
						Action:       ActionNone,
						Reason:       fmt.Sprintf("Different issuer %s, valid separate company", issuer),
						ISINOriginal: it.parsed.Raw,
						ISINMapped:   it.parsed.Raw,
						NameOriginal: truncateName(it.name),
						NameMapped:   truncateName(it.name),
						MarketValue:  it.marketValue,
						IssuerCode:   issuer,
					}
					res.NoAction = append(res.NoAction, row)
					res.All = append(res.All, row)
					processed[it.parsed.Raw] = true
				}
			}
		}
	}
}

// classifyCorporateActions finds equity identifiers sharing the 9-character
// base prefix within one issuer and maps all but the highest serial onto it.
func (e *Engine) classifyCorporateActions(cut, issuer string, members []*item, processed map[string]bool, res *Result) {
	byBase := map[string][]*item{}
	for _, it := range members {
		byBase[it.parsed.BasePrefix] = append(byBase[it.parsed.BasePrefix], it)
	}

	for _, base := range sortedKeys(byBase) {
		var claimable []*item
		for _, it := range byBase[base] {
			if !processed[it.parsed.Raw] {
				claimable = append(claimable, it)
			}
		}
		if len(claimable) < 2 || claimable[0].parsed.SecurityType != "01" {
			continue
		}

		sort.Slice(claimable, func(i, j int) bool {
			return claimable[i].parsed.Serial < claimable[j].parsed.Serial
		})
		newest := claimable[len(claimable)-1]
		nameMapped := truncateName(newest.name)

		for _, it := range claimable {
			isTarget := it.parsed.Raw == newest.parsed.Raw
			reason := fmt.Sprintf("Same issuer %s, equity, serial %s -> %s",
				issuer, it.parsed.Serial, newest.parsed.Serial)
			action := ActionMap
			if isTarget {
				reason = fmt.Sprintf("Same issuer %s, equity, serial %s (TARGET - newest)",
					issuer, it.parsed.Serial)
				action = ActionTarget
			}
			row := Row{
				NameCut:      cut,
				Category:     CategoryCorporateAction,
				Action:       action,
				Reason:       reason,
				ISINOriginal: it.parsed.Raw,
				ISINMapped:   newest.parsed.Raw,
				NameOriginal: truncateName(it.name),
				NameMapped:   nameMapped,
				MarketValue:  it.marketValue,
				IssuerCode:   issuer,
				IsTarget:     isTarget,
			}
			res.CorporateActions = append(res.CorporateActions, row)
			res.All = append(res.All, row)
			processed[it.parsed.Raw] = true
		}
	}
}

// classifyAggregates pools two or more unclaimed CDs or CPs of one issuer
// under a generated synthetic identifier.
func (e *Engine) classifyAggregates(cut, issuer string, members []*item, secCategory string, processed map[string]bool, res *Result) {
	var pool []*item
	for _, it := range members {
		if it.secCategory == secCategory && !processed[it.parsed.Raw] {
			pool = append(pool, it)
		}
	}
	if len(pool) < 2 {
		return
	}

	synthetic := isin.Synthetic(issuer, secCategory, 1)
	name := aggregatedName(pool[0].name, secCategory)

	category := CategoryCDAggregate
	reason := fmt.Sprintf("CD for issuer %s, aggregate to synthetic", issuer)
	if secCategory == isin.CategoryCP {
		category = CategoryCPAggregate
		reason = fmt.Sprintf("CP for issuer %s, aggregate to synthetic", issuer)
	}

	for _, it := range pool {
		row := Row{
			NameCut:      cut,
			Category:     category,
			Action:       ActionAggregate,
			Reason:       reason,
			ISINOriginal: it.parsed.Raw,
			ISINMapped:   synthetic,
			NameOriginal: truncateName(it.name),
			NameMapped:   name,
			MarketValue:  it.marketValue,
			IssuerCode:   issuer,
		}
		if secCategory == isin.CategoryCP {
			res.CPAggregates = append(res.CPAggregates, row)
		} else {
			res.CDAggregates = append(res.CDAggregates, row)
		}
		res.All = append(res.All, row)
		processed[it.parsed.Raw] = true
	}
}

func distinctISINs(items []*item) int {
	seen := map[string]bool{}
	for _, it := range items {
		seen[it.parsed.Raw] = true
	}
	return len(seen)
}

func sortedKeys(m map[string][]*item) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
