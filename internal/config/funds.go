// =============================================================================
// Portfolio Ledger - Fund Registry
// =============================================================================
//
// The fund registry maps a fund code to everything publisher-specific about
// its disclosures: display name, which AMC folder and workbook sheet to
// read, the portfolio category, an optional file-naming pattern and an
// optional schema override for layouts that defeat keyword inference.
//
// Loaded once from funds.yaml and passed into the pipeline immutable; there
// is no ambient fund table anywhere else.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/portfolio-ledger/internal/schema"
)

// FundConfig holds the publisher settings for one fund.
type FundConfig struct {
	// DisplayName is the human-readable fund name, e.g. "Axis Midcap Fund".
	DisplayName string `yaml:"display_name"`

	// AMCFolder is the subdirectory of the data dir holding this
	// publisher's workbooks.
	AMCFolder string `yaml:"amc_folder"`

	// SheetName is the workbook sheet carrying this fund's portfolio. When
	// the sheet is missing the reader falls back to scanning for a sheet
	// with an identifier header.
	SheetName string `yaml:"sheet_name"`

	// Category groups funds for reporting: "midcap", "smallcap", etc.
	Category string `yaml:"category"`

	// FilePattern overrides the default workbook file name. Placeholders:
	//   {month_end}   - 2025-12-31
	//   {month_short} - 2025-Dec
	//   {year_month}  - 2025-12
	// Default: "{amc_folder}_{month_end}.xlsx"
	FilePattern string `yaml:"file_pattern,omitempty"`

	// SchemaOverride replaces detected column indices for this publisher.
	SchemaOverride *schema.Override `yaml:"schema_override,omitempty"`
}

// FundRegistry maps upper-cased fund codes to their configuration.
type FundRegistry map[string]FundConfig

// LoadFundRegistry reads the fund registry YAML and validates every entry.
func LoadFundRegistry(path string) (FundRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fund registry: %w", err)
	}

	raw := map[string]FundConfig{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fund registry: %w", err)
	}

	registry := FundRegistry{}
	for code, fund := range raw {
		upper := strings.ToUpper(code)
		if fund.DisplayName == "" {
			return nil, fmt.Errorf("fund %s: display_name is required", upper)
		}
		if fund.AMCFolder == "" {
			return nil, fmt.Errorf("fund %s: amc_folder is required", upper)
		}
		if fund.SheetName == "" {
			return nil, fmt.Errorf("fund %s: sheet_name is required", upper)
		}
		if fund.Category == "" {
			return nil, fmt.Errorf("fund %s: category is required", upper)
		}
		registry[upper] = fund
	}

	return registry, nil
}

// Get looks up a fund by code, case-insensitively.
func (r FundRegistry) Get(code string) (FundConfig, bool) {
	fund, ok := r[strings.ToUpper(code)]
	return fund, ok
}

// Codes returns every fund code in sorted order.
func (r FundRegistry) Codes() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ByCategory groups fund codes by category, each group sorted.
func (r FundRegistry) ByCategory() map[string][]string {
	groups := map[string][]string{}
	for code, fund := range r {
		groups[fund.Category] = append(groups[fund.Category], code)
	}
	for _, codes := range groups {
		sort.Strings(codes)
	}
	return groups
}
