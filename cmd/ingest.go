// =============================================================================
// Portfolio Ledger - Ingest Command
// =============================================================================
//
// This file defines the 'ingest' command, which is the main command for
// loading portfolio disclosure workbooks into the ledger.
//
// COMMAND USAGE:
//   ledger ingest --month 2025-12-31 [flags]
//
// FLAGS:
//   --month   : Month-end period to ingest (YYYY-MM-DD, required)
//   --fund    : Ingest only a single fund code
//   --csv     : Also write a pipe-delimited CSV export per fund
//   --archive : Copy ingested workbooks into the archive directory
//
// PROCESSING PIPELINE:
//   1. Load configuration and the fund registry
//   2. Open the ledger and load the identifier registry and mapping table
//   3. For each fund (concurrently, bounded by max_concurrency):
//      a. Locate the disclosure workbook for the period
//      b. Read the configured sheet into a raw grid
//      c. Detect the sheet layout, apply any publisher override
//      d. Extract, assign and resolve the holding rows
//      e. Replace the fund-period slice of the ledger
//      f. Optionally export CSV and archive the workbook
//   4. Print a per-fund summary and batch totals
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/portfolio-ledger/internal/config"
	"github.com/ginjaninja78/portfolio-ledger/internal/export"
	"github.com/ginjaninja78/portfolio-ledger/internal/extract"
	"github.com/ginjaninja78/portfolio-ledger/internal/ledger"
	"github.com/ginjaninja78/portfolio-ledger/internal/schema"
	"github.com/ginjaninja78/portfolio-ledger/internal/sheet"
	"github.com/ginjaninja78/portfolio-ledger/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// ingestMonth is the month-end period to ingest, e.g. "2025-12-31".
var ingestMonth string

// ingestFund restricts ingestion to a single fund code.
var ingestFund string

// ingestCSV also writes a pipe-delimited CSV export per fund.
var ingestCSV bool

// ingestArchive copies ingested workbooks into the archive directory.
var ingestArchive bool

// =============================================================================
// INGEST COMMAND DEFINITION
// =============================================================================

// ingestCmd represents the 'ingest' command.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest portfolio disclosure workbooks into the ledger",
	Long: `The ingest command locates the disclosure workbook of every configured fund
for the given month-end, infers the sheet layout, extracts the holding rows
and replaces that fund-period slice of the ledger.

Ingestion is idempotent: re-running the same fund and month deletes the
previously stored rows before inserting, so a corrected workbook can simply
be dropped into the data directory and re-ingested.

Funds are processed concurrently, bounded by max_concurrency. Errors in one
fund do not affect the others; failed funds are listed in the summary.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the ingest command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(
		&ingestMonth,
		"month",
		"",
		"Month-end period to ingest (YYYY-MM-DD)",
	)
	ingestCmd.MarkFlagRequired("month")

	ingestCmd.Flags().StringVar(
		&ingestFund,
		"fund",
		"",
		"Ingest only this fund code",
	)

	ingestCmd.Flags().BoolVar(
		&ingestCSV,
		"csv",
		false,
		"Write a pipe-delimited CSV export per ingested fund",
	)

	ingestCmd.Flags().BoolVar(
		&ingestArchive,
		"archive",
		false,
		"Copy ingested workbooks into the archive directory",
	)
}

// =============================================================================
// INGEST RESULT
// =============================================================================

// ingestResult carries the outcome of one fund-period ingest back to the
// collector.
type ingestResult struct {
	FundCode    string
	FilePath    string
	Summary     extract.Summary
	Declared    decimal.Decimal
	HasDeclared bool
	Unmapped    []extract.UnmappedISIN
	ExportFile  string
	Err         error
}

// =============================================================================
// MAIN INGEST FUNCTION
// =============================================================================

// runIngest orchestrates the ingest batch.
func runIngest() error {
	startTime := time.Now()
	ctx := context.Background()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Println("=== Portfolio Ledger: Ingest ===")

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

	codes := funds.Codes()
	if ingestFund != "" {
		if _, ok := funds.Get(ingestFund); !ok {
			return fmt.Errorf("unknown fund code %q", ingestFund)
		}
		codes = []string{strings.ToUpper(ingestFund)}
	}

	fmt.Printf("Loaded %d fund configuration(s), ingesting %d for %s\n",
		len(funds), len(codes), ingestMonth)

	// =========================================================================
	// STEP 2: OPEN THE LEDGER AND SHARED LOOKUPS
	// =========================================================================

	store, err := ledger.Open(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	registry, err := store.LoadRegistry(ctx)
	if err != nil {
		return fmt.Errorf("failed to load identifier registry: %w", err)
	}

	mappings, err := extract.LoadMappingTable(cfg.MappingFile)
	if err != nil {
		return fmt.Errorf("failed to load mapping table: %w", err)
	}
	if len(mappings) > 0 {
		fmt.Printf("Applying %d reconciliation mapping(s) from %s\n",
			len(mappings), filepath.Base(cfg.MappingFile))
	}

	fm := utils.NewFileManager(cfg.DataDir, cfg.OutputDir, cfg.ArchiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	projector := extract.NewProjector(registry, mappings, log)

	// =========================================================================
	// STEP 3: INGEST FUNDS CONCURRENTLY
	// =========================================================================
	// Each fund-period is independent. A semaphore channel bounds the number
	// of workbooks open at once; the SQLite store serializes writes itself.

	fmt.Println("Ingesting funds...")

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.MaxConcurrency)
	results := make(chan ingestResult, len(codes))

	for _, code := range codes {
		fund, _ := funds.Get(code)

		wg.Add(1)
		go func(code string, fund config.FundConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- ingestOne(ctx, cfg, fm, store, projector, log, code, fund)
		}(code, fund)
	}

	// Close the results channel when all goroutines are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	var successCount, errorCount int
	var unmapped []extract.UnmappedISIN

	for result := range results {
		if result.Err != nil {
			errorCount++
			fmt.Printf("  ✗ %s: %v\n", result.FundCode, result.Err)
			continue
		}

		successCount++
		fmt.Printf("  ✓ %s: %d rows (%d cash) from %s\n",
			result.FundCode, result.Summary.Rows, result.Summary.CashRows,
			filepath.Base(result.FilePath))
		printTotalCheck(result)
		for _, bucket := range result.Summary.Assigned {
			fmt.Printf("      assigned %s: %d row(s), MV=%s\n",
				bucket.ISIN, bucket.Count, bucket.MarketValue.StringFixed(2))
		}
		if result.ExportFile != "" {
			fmt.Printf("      exported %s\n", filepath.Base(result.ExportFile))
		}
		unmapped = append(unmapped, result.Unmapped...)
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Ingest Complete ===")
	fmt.Printf("Total funds:     %d\n", len(codes))
	fmt.Printf("Successful:      %d\n", successCount)
	fmt.Printf("Errors:          %d\n", errorCount)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	if len(unmapped) > 0 {
		fmt.Printf("\n%d identifier(s) unknown to the registry (refresh the master download):\n", len(unmapped))
		for _, u := range unmapped {
			fmt.Printf("  %s  %s\n", u.ISIN, u.Name)
		}
	}

	if errorCount > 0 && !cfg.ContinueOnError {
		return fmt.Errorf("%d fund(s) failed to ingest", errorCount)
	}
	return nil
}

// printTotalCheck prints the computed vs declared total line for one fund.
func printTotalCheck(result ingestResult) {
	if !result.HasDeclared {
		fmt.Printf("      computed total %s (no declared total on sheet)\n",
			result.Summary.ComputedTotal.StringFixed(2))
		return
	}
	diff := result.Summary.ComputedTotal.Sub(result.Declared)
	fmt.Printf("      computed total %s vs declared %s (diff %s)\n",
		result.Summary.ComputedTotal.StringFixed(2),
		result.Declared.StringFixed(2),
		diff.StringFixed(2))
}

// =============================================================================
// PER-FUND PIPELINE
// =============================================================================

// ingestOne runs the full pipeline for one fund-period and returns its
// result. All failures are reported through the result, never panics.
func ingestOne(
	ctx context.Context,
	cfg *config.MainConfig,
	fm *utils.FileManager,
	store *ledger.Store,
	projector *extract.Projector,
	log *zap.SugaredLogger,
	code string,
	fund config.FundConfig,
) ingestResult {
	res := ingestResult{FundCode: code}

	path, err := fm.DisclosurePath(fund.AMCFolder, fund.FilePattern, ingestMonth)
	if err != nil {
		res.Err = err
		return res
	}
	res.FilePath = path

	if !utils.FileExists(path) {
		res.Err = fmt.Errorf("disclosure file not found: %s", path)
		return res
	}

	format, err := sheet.DetectFormat(path)
	if err != nil {
		res.Err = err
		return res
	}
	if format == sheet.FormatXLS {
		res.Err = fmt.Errorf("%s is a legacy OLE2 .xls workbook; convert it to .xlsx first", filepath.Base(path))
		return res
	}

	grid, err := sheet.NewReader(log).Read(path, fund.SheetName)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		return res
	}

	layout, err := schema.Detect(grid)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", filepath.Base(path), err)
		return res
	}
	layout = fund.SchemaOverride.Apply(layout)

	proj := projector.Project(grid, layout)
	res.Summary = proj.Summary
	res.Declared = layout.GrandTotal
	res.HasDeclared = layout.HasGrandTotal
	res.Unmapped = proj.Unmapped

	if _, err := store.ReplaceHoldings(ctx, code, ingestMonth, proj.Rows); err != nil {
		res.Err = err
		return res
	}
	if err := store.UpsertFund(ctx, code, fund.DisplayName, fund.Category); err != nil {
		res.Err = err
		return res
	}

	if ingestCSV {
		exportFile, err := export.Write(proj.Rows, code, ingestMonth, cfg.OutputDir)
		if err != nil {
			res.Err = err
			return res
		}
		res.ExportFile = exportFile
	}

	if ingestArchive {
		if _, err := fm.ArchiveDisclosure(path, fund.AMCFolder); err != nil {
			res.Err = err
			return res
		}
	}

	log.Infow("ingested fund-period",
		"fund", code,
		"month", ingestMonth,
		"rows", proj.Summary.Rows,
		"total", proj.Summary.ComputedTotal.StringFixed(2),
	)
	return res
}
