// =============================================================================
// Portfolio Ledger - Identifier Assignment
// =============================================================================

package extract

import (
	"strings"

	"github.com/ginjaninja78/portfolio-ledger/internal/isin"
)

// Assign returns the identifier to carry forward for a row: the original
// when it is structurally valid, otherwise the synthetic cash code. There is
// no middle ground: a malformed identifier is treated exactly like a blank
// one, so TREPS lines, margin deposits and typo'd codes all consolidate
// under the same cash bucket.
func Assign(original string) string {
	trimmed := strings.TrimSpace(original)
	if isin.IsValid(trimmed) {
		return trimmed
	}
	return isin.Cash
}
