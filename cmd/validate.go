// =============================================================================
// Portfolio Ledger - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which compares the persisted
// market value sum of every fund-period against the grand total the
// publisher declared on the sheet.
//
// COMMAND USAGE:
//   ledger validate [flags]
//
// FLAGS:
//   --month : Validate only fund-periods for this month-end
//   --fund  : Validate only this fund code
//
// PROCESSING PIPELINE:
//   1. Read the stored sum and row count of every fund-period
//   2. Re-read each disclosure workbook to recover the declared total
//   3. Compare within the configured tolerance ratio
//   4. Write the CSV log and text report, print the console table
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/config"
	"github.com/ginjaninja78/portfolio-ledger/internal/ledger"
	"github.com/ginjaninja78/portfolio-ledger/internal/report"
	"github.com/ginjaninja78/portfolio-ledger/internal/schema"
	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
	"github.com/ginjaninja78/portfolio-ledger/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// validateMonth restricts validation to one month-end.
var validateMonth string

// validateFund restricts validation to one fund code.
var validateFund string

// =============================================================================
// VALIDATE COMMAND DEFINITION
// =============================================================================

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate ledger totals against declared sheet totals",
	Long: `The validate command recomputes the stored market value sum of every
fund-period in the ledger and compares it against the grand total declared
on the original disclosure sheet, within the configured tolerance ratio.

Fund-periods whose workbook is missing or carries no labeled total are
reported as NO_DECLARED_TOTAL rather than failed; a reviewer comment from
the comments file is attached to the report when one exists.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the validate command with the root command.
func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(
		&validateMonth,
		"month",
		"",
		"Validate only fund-periods for this month-end (YYYY-MM-DD)",
	)

	validateCmd.Flags().StringVar(
		&validateFund,
		"fund",
		"",
		"Validate only this fund code",
	)
}

// =============================================================================
// MAIN VALIDATE FUNCTION
// =============================================================================

// runValidate validates every stored fund-period.
func runValidate() error {
	ctx := context.Background()
	generated := time.Now()

	fmt.Println("=== Portfolio Ledger: Validate ===")

	cfg, err := loadMainConfig()
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	funds, err := config.LoadFundRegistry(cfg.FundsFile)
	if err != nil {
		return fmt.Errorf("failed to load fund registry: %w", err)
	}

	comments, err := report.LoadComments(cfg.CommentsFile)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}

	store, err := ledger.Open(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	totals, err := store.FundPeriodTotals(ctx)
	if err != nil {
		return fmt.Errorf("failed to read fund-period totals: %w", err)
	}

	fm := utils.NewFileManager(cfg.DataDir, cfg.OutputDir, cfg.ArchiveDir)
	reporter := report.NewReporter(decimal.NewFromFloat(cfg.ToleranceRatio), comments, log)

	// =========================================================================
	// VALIDATE EACH FUND-PERIOD
	// =========================================================================

	var results []report.Result
	for _, fp := range totals {
		if validateMonth != "" && fp.MonthEnd != validateMonth {
			continue
		}
		if validateFund != "" && !strings.EqualFold(fp.FundCode, validateFund) {
			continue
		}

		declared, hasDeclared := declaredTotal(fm, funds, log, fp.FundCode, fp.MonthEnd)
		result := reporter.Validate(fp.FundCode, fp.MonthEnd, fp.Total, fp.Rows, declared, hasDeclared)
		results = append(results, result)

		fmt.Printf("  [%s] %s %s: ledger %s", result.Status,
			result.FundCode, result.MonthEnd, result.LedgerTotal.StringFixed(2))
		if result.HasDeclared {
			fmt.Printf(" vs declared %s (diff %s)", result.DeclaredTotal.StringFixed(2),
				result.Difference.StringFixed(2))
		}
		if result.Comment != "" {
			fmt.Printf("  (%s)", result.Comment)
		}
		fmt.Println()
	}

	if len(results) == 0 {
		fmt.Println("No fund-periods matched; ingest some funds first.")
		return nil
	}

	// =========================================================================
	// WRITE LOGS AND SUMMARY
	// =========================================================================

	stamp := generated.Format("20060102_150405")
	csvPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("validation_log_%s.csv", stamp))
	if err := report.WriteCSVLog(results, csvPath); err != nil {
		return fmt.Errorf("failed to write validation log: %w", err)
	}

	reportPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("validation_report_%s.txt", stamp))
	if err := report.WriteTextReport(results, reportPath, generated); err != nil {
		return fmt.Errorf("failed to write validation report: %w", err)
	}

	summary := report.Summarize(results)
	fmt.Println("\n=== Validation Complete ===")
	fmt.Printf("Result:   %s\n", summary)
	fmt.Printf("CSV log:  %s\n", csvPath)
	fmt.Printf("Report:   %s\n", reportPath)

	if summary.Fail > 0 {
		return fmt.Errorf("%d fund-period(s) failed validation", summary.Fail)
	}
	return nil
}

// declaredTotal re-reads one fund-period workbook and returns the declared
// grand total. A missing workbook, unreadable sheet or unlabeled total all
// report as "no declared total"; validation classifies those, it never
// aborts on them.
func declaredTotal(
	fm *utils.FileManager,
	funds config.FundRegistry,
	log *zap.SugaredLogger,
	fundCode, monthEnd string,
) (decimal.Decimal, bool) {
	fund, ok := funds.Get(fundCode)
	if !ok {
		log.Warnw("fund in ledger but not in registry", "fund", fundCode)
		return decimal.Zero, false
	}

	path, err := fm.DisclosurePath(fund.AMCFolder, fund.FilePattern, monthEnd)
	if err != nil || !utils.FileExists(path) {
		return decimal.Zero, false
	}

	grid, err := sheet.NewReader(log).Read(path, fund.SheetName)
	if err != nil {
		log.Warnw("could not re-read disclosure", "fund", fundCode, "path", path, "error", err)
		return decimal.Zero, false
	}

	layout, err := schema.Detect(grid)
	if err != nil {
		return decimal.Zero, false
	}
	layout = fund.SchemaOverride.Apply(layout)

	return layout.GrandTotal, layout.HasGrandTotal
}
