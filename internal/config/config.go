// =============================================================================
// Portfolio Ledger - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing all configuration
// files. It handles both the main application configuration and the fund
// registry.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): Global application settings
//   2. Fund Registry (funds.yaml): Per-fund publisher settings
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Layered: YAML first, then LEDGER_* environment variables on top
//   - Immutable: loaded once in cmd/root and passed into the pipeline
//   - Validated: defaults applied and directories ensured on load
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment overrides, e.g. LEDGER_DATABASE_PATH.
const envPrefix = "ledger"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// DataDir is the root directory holding raw disclosure workbooks, one
	// subdirectory per AMC.
	// Default: "./data/raw"
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR"`

	// OutputDir is where run artifacts are written: reconciliation audit
	// and mapping files, validation logs, CSV exports.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// ArchiveDir is where ingested disclosure files are copied after a
	// successful run.
	// Default: "./archive"
	ArchiveDir string `yaml:"archive_dir" envconfig:"ARCHIVE_DIR"`

	// =========================================================================
	// DATA SETTINGS
	// =========================================================================

	// DatabasePath is the SQLite ledger file.
	// Default: "./data/portfolio.db"
	DatabasePath string `yaml:"database_path" envconfig:"DATABASE_PATH"`

	// FundsFile is the fund registry YAML.
	// Default: "./funds.yaml"
	FundsFile string `yaml:"funds_file" envconfig:"FUNDS_FILE"`

	// MappingFile is the stable reconciliation mapping table ingest reads.
	// Default: "<output_dir>/isin_mapping_final.tsv"
	MappingFile string `yaml:"mapping_file" envconfig:"MAPPING_FILE"`

	// CommentsFile holds manual review comments for validation, keyed
	// "FUNDCODE_YYYY-MM-DD".
	// Default: "./validation_comments.yaml"
	CommentsFile string `yaml:"comments_file" envconfig:"COMMENTS_FILE"`

	// =========================================================================
	// VALIDATION SETTINGS
	// =========================================================================

	// ToleranceRatio is the relative difference accepted between the ledger
	// total and the declared total, as a ratio (0.0001 = 0.01%).
	// Default: 0.0001
	ToleranceRatio float64 `yaml:"tolerance_ratio" envconfig:"TOLERANCE_RATIO"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the number of fund-period sheets ingested in
	// parallel. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY"`

	// ContinueOnError keeps a batch running when one sheet fails.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error" envconfig:"CONTINUE_ON_ERROR"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration: YAML file (optional, missing
// file means all defaults), LEDGER_* environment variables layered on top,
// then defaults and validation.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(envPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.DataDir == "" {
		config.DataDir = "./data/raw"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./archive"
	}
	if config.DatabasePath == "" {
		config.DatabasePath = "./data/portfolio.db"
	}
	if config.FundsFile == "" {
		config.FundsFile = "./funds.yaml"
	}
	if config.MappingFile == "" {
		config.MappingFile = filepath.Join(config.OutputDir, "isin_mapping_final.tsv")
	}
	if config.CommentsFile == "" {
		config.CommentsFile = "./validation_comments.yaml"
	}
	if config.ToleranceRatio == 0 {
		config.ToleranceRatio = 0.0001
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
}

// validateMainConfig ensures the working directories exist, creating them
// when absent.
func validateMainConfig(config *MainConfig) error {
	dirs := []string{
		config.DataDir,
		config.OutputDir,
		config.ArchiveDir,
		filepath.Dir(config.DatabasePath),
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}

	return nil
}
