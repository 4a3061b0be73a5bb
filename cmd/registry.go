// =============================================================================
// Portfolio Ledger - Registry Command
// =============================================================================
//
// This file defines the 'registry' command, which manages the identifier
// master table used to resolve security names during ingest.
//
// COMMAND USAGE:
//   ledger registry                      # Show registry statistics
//   ledger registry --import master.csv  # Replace the registry from a CSV
//
// The master CSV is the exchange-published security list: identifier, name,
// security type, status, issuer, trading symbol, exchange name, face value.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/portfolio-ledger/internal/ledger"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// importMasterPath is the master CSV to load into the registry.
var importMasterPath string

// =============================================================================
// REGISTRY COMMAND DEFINITION
// =============================================================================

// registryCmd represents the 'registry' command.
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the identifier master registry",
	Long: `The registry command shows the size of the identifier master table, and
with --import replaces its contents from an exchange-published master CSV.

Ingest falls back to the name printed on the disclosure sheet for any
identifier the registry does not know, so refreshing the registry after the
exchange publishes a new list improves name quality retroactively on the
next ingest.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistry()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the registry command with the root command.
func init() {
	rootCmd.AddCommand(registryCmd)

	registryCmd.Flags().StringVar(
		&importMasterPath,
		"import",
		"",
		"Master CSV file to load into the registry",
	)
}

// =============================================================================
// MAIN REGISTRY FUNCTION
// =============================================================================

// runRegistry shows or replaces the identifier registry.
func runRegistry() error {
	ctx := context.Background()

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

	if importMasterPath != "" {
		rows, err := ledger.ReadMasterCSV(importMasterPath)
		if err != nil {
			return fmt.Errorf("failed to read master CSV: %w", err)
		}
		inserted, err := store.ReplaceRegistry(ctx, rows)
		if err != nil {
			return fmt.Errorf("failed to replace registry: %w", err)
		}
		fmt.Printf("Replaced registry with %d identifier(s) from %s\n", inserted, importMasterPath)
		return nil
	}

	count, err := store.RegistryCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count registry: %w", err)
	}
	fmt.Printf("Registry holds %d identifier(s)\n", count)
	if count == 0 {
		fmt.Println("Load one with: ledger registry --import <master.csv>")
	}
	return nil
}
