// =============================================================================
// Portfolio Ledger - Manual Review Comments
// =============================================================================

package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Comments holds operator annotations for known discrepancies, keyed
// "FUNDCODE_YYYY-MM-DD".
type Comments map[string]string

// For returns the comment for one fund-period, or "".
func (c Comments) For(fundCode, monthEnd string) string {
	return c[fmt.Sprintf("%s_%s", fundCode, monthEnd)]
}

// LoadComments reads the comment file. A missing file yields an empty set;
// annotating failures is optional.
func LoadComments(path string) (Comments, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Comments{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading comments file: %w", err)
	}

	c := Comments{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing comments file %s: %w", path, err)
	}
	return c, nil
}
