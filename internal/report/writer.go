// =============================================================================
// Portfolio Ledger - Validation Report Writers
// =============================================================================
//
// Two renderings of the same results: a machine-readable CSV log and a
// fixed-width text table for humans. Both are overwritten per run; history
// lives in version control of the output directory, not in the files.
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var csvHeader = []string{
	"fund_code", "month_end", "declared_total", "db_total",
	"difference", "diff_pct", "rows", "status", "manual_review",
}

// WriteCSVLog writes the results as a CSV log at path.
func WriteCSVLog(results []Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating validation log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{csvHeader}
	for _, r := range results {
		declared, diff, pct := "", "", ""
		if r.HasDeclared {
			declared = r.DeclaredTotal.StringFixed(2)
			diff = r.Difference.StringFixed(2)
			pct = r.DiffRatio.StringFixed(6)
		}
		records = append(records, []string{
			r.FundCode, r.MonthEnd, declared, r.LedgerTotal.StringFixed(2),
			diff, pct, fmt.Sprintf("%d", r.Rows), string(r.Status), r.Comment,
		})
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("writing validation log: %w", err)
	}
	return f.Close()
}

// WriteTextReport writes the human-readable table at path.
func WriteTextReport(results []Result, path string, generated time.Time) error {
	var b strings.Builder
	rule := strings.Repeat("=", 80)

	fmt.Fprintf(&b, "%s\nLEDGER VALIDATION\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Generated: %s\n", generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Fund-periods: %d\n\n", len(results))

	fmt.Fprintf(&b, "%-20s %-12s %15s %15s %12s %9s %s\n",
		"Fund", "Period", "Declared", "Ledger", "Diff", "Diff%", "Status")
	fmt.Fprintln(&b, strings.Repeat("-", 100))

	for _, r := range results {
		declared, diff, pct := "N/A", "N/A", "N/A"
		if r.HasDeclared {
			declared = r.DeclaredTotal.StringFixed(2)
			diff = r.Difference.StringFixed(2)
			pct = r.DiffRatio.Mul(hundred).StringFixed(4) + "%"
		}
		marker := statusMarker(r.Status)
		line := fmt.Sprintf("%-20s %-12s %15s %15s %12s %9s %s %s",
			r.FundCode, r.MonthEnd, declared, r.LedgerTotal.StringFixed(2), diff, pct, marker, r.Status)
		if r.Comment != "" {
			line += fmt.Sprintf("  (%s)", r.Comment)
		}
		fmt.Fprintln(&b, line)
	}

	fmt.Fprintln(&b, strings.Repeat("-", 100))
	fmt.Fprintf(&b, "\nSummary: %s\n", Summarize(results))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing validation report: %w", err)
	}
	return nil
}

func statusMarker(s Status) string {
	switch s {
	case StatusPass:
		return "[OK]"
	case StatusFail:
		return "[!!]"
	default:
		return "[??]"
	}
}
