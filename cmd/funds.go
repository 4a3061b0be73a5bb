// =============================================================================
// Portfolio Ledger - Funds Command
// =============================================================================
//
// This file defines the 'funds' command, which lists the configured fund
// registry and optionally syncs fund metadata into the ledger.
//
// COMMAND USAGE:
//   ledger funds [flags]
//
// FLAGS:
//   --sync : Upsert every configured fund into the ledger funds table
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/portfolio-ledger/internal/config"
	"github.com/ginjaninja78/portfolio-ledger/internal/ledger"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// syncFunds upserts the configured funds into the ledger funds table.
var syncFunds bool

// =============================================================================
// FUNDS COMMAND DEFINITION
// =============================================================================

// fundsCmd represents the 'funds' command.
var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "List the configured funds",
	Long: `The funds command lists every fund in the registry grouped by category,
with its publisher folder and workbook sheet. With --sync, fund metadata is
also upserted into the ledger so reports can join on it before the first
ingest of a fund.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFunds()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the funds command with the root command.
func init() {
	rootCmd.AddCommand(fundsCmd)

	fundsCmd.Flags().BoolVar(
		&syncFunds,
		"sync",
		false,
		"Upsert fund metadata into the ledger",
	)
}

// =============================================================================
// MAIN FUNDS FUNCTION
// =============================================================================

// runFunds lists (and optionally syncs) the fund registry.
func runFunds() error {
	cfg, err := loadMainConfig()
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	funds, err := config.LoadFundRegistry(cfg.FundsFile)
	if err != nil {
		return fmt.Errorf("failed to load fund registry: %w", err)
	}

	groups := funds.ByCategory()
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	fmt.Printf("%d configured fund(s)\n", len(funds))
	for _, category := range categories {
		fmt.Printf("\n%s:\n", category)
		for _, code := range groups[category] {
			fund, _ := funds.Get(code)
			fmt.Printf("  %-14s %-34s folder=%s sheet=%s\n",
				code, fund.DisplayName, fund.AMCFolder, fund.SheetName)
		}
	}

	if !syncFunds {
		return nil
	}

	// =========================================================================
	// SYNC METADATA INTO THE LEDGER
	// =========================================================================

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

	ctx := context.Background()
	for _, code := range funds.Codes() {
		fund, _ := funds.Get(code)
		if err := store.UpsertFund(ctx, code, fund.DisplayName, fund.Category); err != nil {
			return fmt.Errorf("failed to sync fund %s: %w", code, err)
		}
	}
	fmt.Printf("\nSynced %d fund(s) into the ledger.\n", len(funds))
	return nil
}
