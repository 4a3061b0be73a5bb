// =============================================================================
// Portfolio Ledger - Row Classification Rules
// =============================================================================
//
// Ordered rule tables deciding, per row, whether extraction keeps walking,
// skips the row, or stops the walk entirely. Rules are evaluated top to
// bottom and the first match wins, so order is load-bearing: stop rules run
// before skip rules, and the cheap literal matches run before the regexp one.
//
// The tables encode the layout conventions observed across AMC disclosure
// sheets; when a new publisher breaks them, add a rule here rather than
// special-casing in the extractor.
//
// =============================================================================

package extract

import (
	"regexp"
	"strings"

	"github.com/ginjaninja78/portfolio-ledger/internal/isin"
)

// Action is the outcome of classifying one row.
type Action int

const (
	// ActionKeep lets the row through to value parsing.
	ActionKeep Action = iota
	// ActionSkip drops the row and keeps walking.
	ActionSkip
	// ActionStop ends the walk; nothing at or below this row is data.
	ActionStop
)

// rowContext is the pre-lowered view of one row the rules match against.
type rowContext struct {
	// name and id are the trimmed, lower-cased name and identifier cells.
	name string
	id   string
	// firstCell is the trimmed, lower-cased first cell of the row.
	firstCell string
	// rowText is the lower-cased concatenation of all non-empty cells.
	rowText string
	// validID is true when the identifier cell passes isin.IsValid.
	validID bool
}

// rule pairs a named predicate with the action it triggers.
type rule struct {
	name   string
	match  func(rowContext) bool
	action Action
}

// Aggregation labels that mark subtotal rows wherever they appear in the
// name or identifier cell.
var subtotalLabels = []string{"sub total", "subtotal", "grand total", "grandtotal"}

// Section banner texts. These only skip a row when its identifier cell is
// not a valid identifier, because a handful of issuers have legal names that
// start with one of these phrases.
var sectionHeaders = []string{
	"treasury bills",
	"treasury bill",
	"money market instruments",
	"money market",
	"debt instruments",
	"debt",
	"equity & equity related",
	"equity and equity",
	"listed / awaiting",
	"listed/awaiting",
	"privately placed",
	"unlisted",
	"certificate of deposit",
	"commercial paper",
	"government securities",
	"government security",
	"corporate debt",
	"corporate bond",
	"securitised debt",
	"pass through",
	"units of real estate",
	"reits",
	"units of an alternative",
	"aif",
	"zero coupon bonds",
	"deep discount bonds",
	"others",
}

// standaloneTotal matches "total" as a whole word, so "Total" and
// "Total - Equity" match but "Total Net Assets" is excluded by the
// companion "net" check in the rule below.
var standaloneTotal = regexp.MustCompile(`\btotal\b`)

// stopRules end the walk. Everything at or below a matching row is footer
// material (declared totals, notes, signature blocks).
var stopRules = []rule{
	{
		name: "grand-total row",
		match: func(c rowContext) bool {
			return strings.Contains(c.rowText, "grand total")
		},
		action: ActionStop,
	},
	{
		name: "total-net-assets row",
		match: func(c rowContext) bool {
			return strings.Contains(c.rowText, "total net assets")
		},
		action: ActionStop,
	},
	{
		name: "bare total in first cell",
		match: func(c rowContext) bool {
			return c.firstCell == "total"
		},
		action: ActionStop,
	},
}

// skipRules drop non-holding rows without ending the walk.
var skipRules = []rule{
	{
		name: "subtotal label",
		match: func(c rowContext) bool {
			for _, label := range subtotalLabels {
				if strings.Contains(c.name, label) || strings.Contains(c.id, label) {
					return true
				}
			}
			return false
		},
		action: ActionSkip,
	},
	{
		name: "section banner without identifier",
		match: func(c rowContext) bool {
			if c.validID {
				return false
			}
			for _, h := range sectionHeaders {
				if c.name == h || strings.HasPrefix(c.name, h) {
					return true
				}
			}
			return false
		},
		action: ActionSkip,
	},
	{
		name: "literal total cell",
		match: func(c rowContext) bool {
			return c.name == "total" || c.id == "total"
		},
		action: ActionSkip,
	},
	{
		name: "standalone total wording",
		match: func(c rowContext) bool {
			return standaloneTotal.MatchString(c.rowText) &&
				!strings.Contains(c.rowText, "net")
		},
		action: ActionSkip,
	},
}

// classify runs the stop rules, then the skip rules, first match wins.
// It returns the action and the name of the matched rule for logging.
func classify(c rowContext) (Action, string) {
	for _, r := range stopRules {
		if r.match(c) {
			return r.action, r.name
		}
	}
	for _, r := range skipRules {
		if r.match(c) {
			return r.action, r.name
		}
	}
	return ActionKeep, ""
}

// newRowContext lowers the relevant cells of one row for rule matching.
func newRowContext(name, id, firstCell, rowText string) rowContext {
	return rowContext{
		name:      strings.ToLower(strings.TrimSpace(name)),
		id:        strings.ToLower(strings.TrimSpace(id)),
		firstCell: strings.ToLower(strings.TrimSpace(firstCell)),
		rowText:   strings.ToLower(rowText),
		validID:   isin.IsValid(strings.TrimSpace(id)),
	}
}
