// =============================================================================
// Portfolio Ledger - Name Standardization
// =============================================================================
//
// Name handling for duplicate detection: standardized keys for grouping,
// issuer-name extraction for aggregate labels, and name-based recognition of
// sovereign paper, which carries no issuer structure in its identifier and
// can only be told apart by its printed name.
//
// =============================================================================

package reconcile

import (
	"fmt"
	"regexp"
	"strings"
)

// nameCutLength is how many standardized characters two names must share to
// be considered a potential duplicate pair.
const nameCutLength = 7

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// StandardizeName lowers a display name and strips everything that is not a
// letter or digit, so punctuation and spacing differences between publishers
// cannot hide a duplicate.
func StandardizeName(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "")
}

// nameCut returns the grouping key: the first nameCutLength characters of
// the standardized name.
func nameCut(name string) string {
	std := StandardizeName(name)
	if len(std) > nameCutLength {
		return std[:nameCutLength]
	}
	return std
}

// Instrument-name suffixes stripped when extracting the issuer name. Order
// matters only in that each is applied to the survivor of the previous one.
var companySuffixes = []*regexp.Regexp{
	regexp.MustCompile(`\s+LIMITED.*$`),
	regexp.MustCompile(`\s+LTD\.?.*$`),
	regexp.MustCompile(`\s+BANK\s+.*$`),
	regexp.MustCompile(`\s+EQ\s.*$`),
	regexp.MustCompile(`\s+CD\s.*$`),
	regexp.MustCompile(`\s+CP\s.*$`),
	regexp.MustCompile(`\s+NCD\s.*$`),
	regexp.MustCompile(`\s+\d+D\s.*$`),
}

var (
	bankName   = regexp.MustCompile(`^(.+?\s+BANK)\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

// ExtractCompanyName reduces a full instrument name to the issuer name, e.g.
// "AXIS BANK LIMITED CD 08JAN26" to "AXIS BANK". Bank names keep the word
// "BANK"; everything after a known suffix is dropped for the rest. When
// stripping leaves fewer than five characters the first three words of the
// original name are used instead.
func ExtractCompanyName(fullName string) string {
	if fullName == "" {
		return ""
	}

	name := strings.ToUpper(strings.TrimSpace(fullName))

	if m := bankName.FindStringSubmatch(name); m != nil {
		return m[1]
	}

	for _, suffix := range companySuffixes {
		name = suffix.ReplaceAllString(name, "")
	}
	name = strings.TrimSpace(whitespace.ReplaceAllString(name, " "))

	if len(name) < 5 {
		words := strings.Fields(strings.ToUpper(fullName))
		if len(words) > 3 {
			words = words[:3]
		}
		name = strings.Join(words, " ")
	}

	return name
}

// aggregatedName builds the display name for an aggregate bucket from the
// first member's instrument name, e.g. "AXIS BANK CD" or
// "BAJAJ FINANCE 365D CP".
func aggregatedName(firstMemberName, category string) string {
	base := ExtractCompanyName(firstMemberName)
	if category == "CP" && strings.Contains(strings.ToUpper(firstMemberName), "365D") {
		return base + " 365D CP"
	}
	return fmt.Sprintf("%s %s", base, category)
}

// Sovereign-paper name patterns. A coupon-rate figure before "FV" or "%"
// marks a dated bond, as does a "GOI <ddMMMyy>" maturity stamp.
var (
	couponRate  = regexp.MustCompile(`\d+\.\d+\s*(FV|%)`)
	goiMaturity = regexp.MustCompile(`GOI\s+\d{2}[A-Z]{2}\d{2}`)
)

// GOI security kinds returned by detectGOISecurity.
const (
	goiNone  = ""
	goiTBill = "TBILL"
	goiGSec  = "GSEC"
)

// detectGOISecurity recognizes Government of India treasury bills and dated
// bonds by name. Sovereign identifiers carry no issuer code, so the name is
// the only signal.
func detectGOISecurity(name string) string {
	if name == "" {
		return goiNone
	}
	upper := strings.ToUpper(name)

	if !strings.Contains(upper, "GOVERNMENT OF INDIA") && !strings.Contains(upper, "GOI") {
		return goiNone
	}

	if strings.Contains(upper, "TBILL") || strings.Contains(upper, "T-BILL") || strings.Contains(upper, "T BILL") {
		return goiTBill
	}
	if couponRate.MatchString(upper) || goiMaturity.MatchString(upper) {
		return goiGSec
	}
	return goiNone
}

// truncateName caps a display name for artifact files.
func truncateName(name string) string {
	const max = 60
	r := []rune(name)
	if len(r) > max {
		return string(r[:max])
	}
	return name
}
