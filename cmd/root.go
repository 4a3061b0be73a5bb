// =============================================================================
// Portfolio Ledger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'ingest', 'reconcile') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledger)
//   ├── ingestCmd    (ledger ingest)
//   ├── reconcileCmd (ledger reconcile)
//   ├── validateCmd  (ledger validate)
//   ├── fundsCmd     (ledger funds)
//   ├── registryCmd  (ledger registry)
//   └── versionCmd   (ledger version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Loading the main configuration for subcommands
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/portfolio-ledger/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	// Use is the one-line usage message.
	// This is what appears in help text and error messages.
	Use: "ledger",

	// Short is a short description shown in the 'help' output.
	Short: "Portfolio Ledger - Ingest and reconcile mutual fund portfolio disclosures",

	// Long is a longer description shown in the 'help <command>' output.
	Long: `Portfolio Ledger is a CLI tool that ingests monthly portfolio disclosure
workbooks published by mutual fund houses into a local SQLite ledger, and
reconciles the security identifiers that drift across publishers and months.

Key Features:
  - Layout inference for heterogeneous disclosure sheets
  - Identifier normalization with a cash/non-ISIN synthetic bucket
  - Cross-fund reconciliation of corporate actions and money-market series
  - Validation of ledger totals against declared sheet totals
  - Concurrent ingest with per-fund publisher configuration

Example Usage:
  ledger ingest --month 2025-12-31            # Ingest all configured funds
  ledger ingest --month 2025-12-31 --fund axismcf
  ledger reconcile --create-map               # Build the identifier mapping
  ledger validate --month 2025-12-31          # Check ledger vs declared totals`,

	// Run is the function that will be executed when the root command is called
	// without any subcommands. In this case, we just print the help message.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Execute the root command. If there's an error, print it and exit.
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// SHARED SETUP HELPERS
// =============================================================================

// loadMainConfig loads the main configuration from the --config path.
func loadMainConfig() (*config.MainConfig, error) {
	return config.LoadMainConfig(cfgFile)
}

// newLogger builds the application logger. The configured level applies
// unless --verbose forces debug.
func newLogger(cfg *config.MainConfig) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init is called automatically when the package is loaded.
// It sets up the global flags shared by every subcommand.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	// Default is "config.yaml" in the current directory.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
