// =============================================================================
// Portfolio Ledger - Reconcile Command
// =============================================================================
//
// This file defines the 'reconcile' command, which runs the identifier
// reconciliation engine over every distinct identifier stored in the ledger.
//
// COMMAND USAGE:
//   ledger reconcile [flags]
//
// FLAGS:
//   --create-map : Also write the mapping table consumed by the next ingest
//
// PROCESSING PIPELINE:
//   1. Aggregate every distinct identifier across all funds and periods
//   2. Run the reconciliation engine (sovereign, corporate action,
//      money-market aggregation, name-collision passes)
//   3. Write the audit file for reviewer sign-off
//   4. With --create-map, write the per-run mapping snapshot and refresh
//      the stable mapping table
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/portfolio-ledger/internal/ledger"
	"github.com/ginjaninja78/portfolio-ledger/internal/reconcile"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// createMap also writes the mapping files consumed by the next ingest.
var createMap bool

// =============================================================================
// RECONCILE COMMAND DEFINITION
// =============================================================================

// reconcileCmd represents the 'reconcile' command.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile security identifiers across funds and periods",
	Long: `The reconcile command aggregates every distinct identifier in the ledger
and classifies the ones that refer to the same economic exposure: corporate
actions that re-serialed an equity line, certificate of deposit and
commercial paper series that should roll up per issuer, and sovereign
T-Bill and dated-bond lines.

Every run writes an audit file for review. The mapping table that the next
ingest applies is only written with --create-map, so a questionable run can
be inspected without touching the pipeline.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the reconcile command with the root command.
func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(
		&createMap,
		"create-map",
		false,
		"Write the mapping table applied by the next ingest",
	)
}

// =============================================================================
// MAIN RECONCILE FUNCTION
// =============================================================================

// runReconcile runs one full reconciliation pass.
func runReconcile() error {
	ctx := context.Background()

	fmt.Println("=== Portfolio Ledger: Reconcile ===")

	cfg, err := loadMainConfig()
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := ledger.Open(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	inputs, err := store.AggregateHoldings(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate holdings: %w", err)
	}
	if len(inputs) == 0 {
		fmt.Println("No identifiers in the ledger; ingest some funds first.")
		return nil
	}
	fmt.Printf("Classifying %d distinct identifier(s)...\n", len(inputs))

	runID := uuid.New().String()[:8]
	result := reconcile.NewEngine(log).Categorize(inputs)

	// =========================================================================
	// WRITE ARTIFACTS
	// =========================================================================

	auditPath, err := reconcile.WriteAuditFile(result, cfg.OutputDir, runID)
	if err != nil {
		return fmt.Errorf("failed to write audit file: %w", err)
	}
	fmt.Printf("Audit file: %s\n", auditPath)

	if createMap {
		snapshotPath, err := reconcile.WriteMappingFiles(result, cfg.OutputDir, runID)
		if err != nil {
			return fmt.Errorf("failed to write mapping files: %w", err)
		}
		fmt.Printf("Mapping snapshot: %s\n", snapshotPath)
		fmt.Printf("Stable mapping:   %s\n",
			filepath.Join(cfg.OutputDir, reconcile.MappingFileName))
	} else {
		fmt.Println("Mapping table not written (pass --create-map to apply this run).")
	}

	// =========================================================================
	// PRINT SUMMARY
	// =========================================================================

	printReconcileSummary(result.Count(), runID)
	return nil
}

// printReconcileSummary prints the per-category breakdown of one run.
func printReconcileSummary(counts reconcile.Counts, runID string) {
	fmt.Println("\n=== Reconciliation Complete ===")
	fmt.Printf("Run ID:                  %s\n", runID)
	fmt.Printf("Corporate action maps:   %d (-> %d targets)\n",
		counts.CorporateMapped, counts.CorporateTargets)
	fmt.Printf("CD aggregates:           %d\n", counts.CDAggregates)
	fmt.Printf("CP aggregates:           %d\n", counts.CPAggregates)
	fmt.Printf("T-Bill aggregates:       %d\n", counts.TBillAggregates)
	fmt.Printf("G-Sec aggregates:        %d\n", counts.GSecAggregates)
	fmt.Printf("Name collisions kept:    %d\n", counts.NoAction)
	fmt.Printf("Total classified:        %d\n", counts.Total)
}
