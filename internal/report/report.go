// =============================================================================
// Portfolio Ledger - Validation Reporter
// =============================================================================
//
// Compares what the ledger holds per fund-period against the total the
// publisher declared on the sheet. The comparison is relative: a difference
// ratio at or under the tolerance passes, anything above fails. Periods
// without a usable declared total get their own informational statuses
// instead of failing, since absence of a label is a publisher quirk, not a
// data defect.
//
// Manual review comments let an operator annotate known, explained
// discrepancies; they ride along in the report and never alter the computed
// numbers.
//
// =============================================================================

package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Status classifies one fund-period comparison.
type Status string

const (
	StatusPass              Status = "PASS"
	StatusFail              Status = "FAIL"
	StatusNoDeclaredTotal   Status = "NO_DECLARED_TOTAL"
	StatusZeroDeclaredTotal Status = "ZERO_DECLARED_TOTAL"
)

// DefaultToleranceRatio accepts rounding noise up to 0.01% of the declared
// total.
var DefaultToleranceRatio = decimal.RequireFromString("0.0001")

// Result is one fund-period validation outcome.
type Result struct {
	FundCode      string
	MonthEnd      string
	DeclaredTotal decimal.Decimal
	HasDeclared   bool
	LedgerTotal   decimal.Decimal
	Difference    decimal.Decimal
	DiffRatio     decimal.Decimal
	Rows          int
	Status        Status
	Comment       string
}

// Reporter validates fund-periods against declared totals.
type Reporter struct {
	tolerance decimal.Decimal
	comments  Comments
	log       *zap.SugaredLogger
}

// NewReporter builds a Reporter. A zero tolerance falls back to the default.
func NewReporter(tolerance decimal.Decimal, comments Comments, log *zap.SugaredLogger) *Reporter {
	if tolerance.IsZero() {
		tolerance = DefaultToleranceRatio
	}
	return &Reporter{tolerance: tolerance, comments: comments, log: log}
}

// Validate classifies one fund-period. declared is ignored unless
// hasDeclared is set.
func (r *Reporter) Validate(fundCode, monthEnd string, ledgerTotal decimal.Decimal, rows int, declared decimal.Decimal, hasDeclared bool) Result {
	res := Result{
		FundCode:    fundCode,
		MonthEnd:    monthEnd,
		LedgerTotal: ledgerTotal,
		Rows:        rows,
		Comment:     r.comments.For(fundCode, monthEnd),
	}

	switch {
	case !hasDeclared:
		res.Status = StatusNoDeclaredTotal
	case declared.IsZero():
		res.Status = StatusZeroDeclaredTotal
	default:
		res.DeclaredTotal = declared
		res.HasDeclared = true
		res.Difference = ledgerTotal.Sub(declared).Abs()
		res.DiffRatio = res.Difference.Div(declared.Abs())
		if res.DiffRatio.LessThanOrEqual(r.tolerance) {
			res.Status = StatusPass
		} else {
			res.Status = StatusFail
		}
	}

	r.log.Debugw("fund-period validated",
		"fund", fundCode, "period", monthEnd, "status", res.Status)
	return res
}

// Summary tallies statuses across a report run.
type Summary struct {
	Pass  int
	Fail  int
	Other int
}

// Summarize folds results into status counts.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Pass++
		case StatusFail:
			s.Fail++
		default:
			s.Other++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d PASS, %d FAIL, %d OTHER", s.Pass, s.Fail, s.Other)
}
