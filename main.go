// =============================================================================
// Portfolio Ledger - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Portfolio Ledger CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   ledger ingest     - Ingest disclosure workbooks into the ledger
//   ledger reconcile  - Reconcile identifiers across funds and periods
//   ledger validate   - Validate ledger totals against declared totals
//   ledger funds      - List the configured funds
//   ledger registry   - Manage the identifier master registry
//   ledger version    - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/portfolio-ledger/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
