// =============================================================================
// Portfolio Ledger - ISIN Utilities
// =============================================================================
//
// This package decodes the fixed-position structure of Indian ISINs and owns
// the synthetic identifier formats used for non-security and aggregate rows.
//
// ISIN STRUCTURE:
//   Position 1-2:   Country ("IN")
//   Position 3:     Issuer Type (E=Company, F=MF)
//   Position 4-7:   Issuer Code (unique company identifier)
//   Position 8-9:   Security Type (01=Equity, 16/D6=CD, 14=CP)
//   Position 10-11: Serial Number
//   Position 12:    Check Digit
//
// SYNTHETIC IDENTIFIERS:
//   IN9999999999       - cash and other non-security assets (single code)
//   SYN{issuer}CD{seq} - aggregated certificates of deposit per issuer
//   SYN{issuer}CP{seq} - aggregated commercial papers per issuer
//   SYNGOITBILL01      - all GOI treasury bills (one fungible pool)
//   SYNGOIGSEC01       - all GOI dated bonds (one fungible pool)
//
// =============================================================================

package isin

import (
	"fmt"
	"strings"
)

// =============================================================================
// FIXED IDENTIFIER CONSTANTS
// =============================================================================

const (
	// Cash is the single synthetic identifier assigned to every row that
	// does not carry a valid ISIN (cash, TREPS, repos, futures, margins,
	// net receivables and similar non-security lines).
	Cash = "IN9999999999"

	// CashDisplayName is the display label for the cash identifier when the
	// registry has no name for it (it never does).
	CashDisplayName = "Cash & Other Assets"

	// SyntheticTBill pools every GOI treasury bill under one identifier.
	SyntheticTBill = "SYNGOITBILL01"

	// SyntheticTBillName is the mapped name for the T-Bill pool.
	SyntheticTBillName = "GOI T-BILL"

	// SyntheticGSec pools every GOI dated bond under one identifier.
	SyntheticGSec = "SYNGOIGSEC01"

	// SyntheticGSecName is the mapped name for the G-Sec pool.
	SyntheticGSecName = "GOI G-SEC"

	// syntheticPrefix starts every generated aggregate identifier.
	syntheticPrefix = "SYN"
)

// Security categories derived from the 2-character security type segment.
const (
	CategoryEquity = "EQUITY"
	CategoryCD     = "CD"
	CategoryCP     = "CP"
	CategoryNCD    = "NCD"
	CategoryOther  = "OTHER"
)

// =============================================================================
// VALIDITY AND PARSING
// =============================================================================

// IsValid reports whether s looks like a real Indian ISIN: the "IN" country
// prefix and at least 12 characters. Malformed identifier-like strings are
// rejected the same as blanks; there is no partial credit.
func IsValid(s string) bool {
	return strings.HasPrefix(s, "IN") && len(s) >= 12
}

// Parsed is the positional decomposition of a 12+ character identifier.
type Parsed struct {
	Raw          string
	Country      string // positions 1-2
	IssuerType   string // position 3
	IssuerCode   string // positions 4-7
	SecurityType string // positions 8-9
	Serial       string // positions 10-11
	Check        string // position 12
	BasePrefix   string // positions 1-9 (country+type+issuer+subtype)
}

// Parse decomposes an identifier into its fixed segments. It returns false
// for strings shorter than 12 characters; callers filter on that, not on the
// country prefix, so synthetic codes still decompose.
func Parse(s string) (Parsed, bool) {
	if len(s) < 12 {
		return Parsed{}, false
	}
	return Parsed{
		Raw:          s,
		Country:      s[:2],
		IssuerType:   s[2:3],
		IssuerCode:   s[3:7],
		SecurityType: s[7:9],
		Serial:       s[9:11],
		Check:        s[11:12],
		BasePrefix:   s[:9],
	}, true
}

// SecurityCategory maps the 2-character security type segment to a coarse
// instrument class used by the reconciliation rules.
func SecurityCategory(securityType string) string {
	switch securityType {
	case "01":
		return CategoryEquity
	case "16", "D6":
		return CategoryCD
	case "14":
		return CategoryCP
	case "07", "08":
		return CategoryNCD
	default:
		return CategoryOther
	}
}

// Synthetic builds an aggregate identifier for one issuer and category.
// Format: SYN + 4-char issuer code + category + 2-digit sequence, e.g.
// "SYN045BCD01".
func Synthetic(issuerCode, category string, seq int) string {
	return fmt.Sprintf("%s%s%s%02d", syntheticPrefix, issuerCode, category, seq)
}
