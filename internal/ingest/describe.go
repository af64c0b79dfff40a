package ingest

import (
	"regexp"
	"strings"
)

// PlaceholderDescription substitutes for card descriptions that cleanup
// reduced to nothing useful.
const PlaceholderDescription = "Card Transaction"

// uberLabel is the fixed merchant label for Uber's many description forms
// (UBER TRIP, UBER* EATS, UBER BV, ...).
const uberLabel = "Uber"

// Noise that card processors prepend to merchant text.
var noisePrefixes = []string{"POS PURCHASE", "PURCHASE", "PREAUTH"}

// Trailing junk commonly appended after the merchant name.
var (
	refSuffixRe      = regexp.MustCompile(`\s+#?[0-9A-Z]*\d{5,}[0-9A-Z]*$`)
	phoneSuffixRe    = regexp.MustCompile(`\s+\d{3}[-. ]?\d{3}[-. ]?\d{4}$`)
	provinceSuffixRe = regexp.MustCompile(`\s+[A-Z]{2}$`)
)

// Tokens that survive cleanup but name no merchant.
var nonMerchantTokens = map[string]bool{
	"POS":      true,
	"PURCHASE": true,
	"PREAUTH":  true,
	"PAYMENT":  true,
	"DEBIT":    true,
	"CREDIT":   true,
}

// CleanCardDescription normalizes a CIBC credit-card merchant string:
// whitespace collapsed, known noise prefixes removed, then trailing
// province codes, phone numbers, and reference/auth blobs stripped. It is
// best effort and never rejects a row; anything that collapses below three
// characters, or to a known non-merchant token, becomes the placeholder.
func CleanCardDescription(raw string) string {
	s := collapseSpaces(raw)
	if s == "" {
		return PlaceholderDescription
	}
	if strings.HasPrefix(strings.ToUpper(s), "UBER") {
		return uberLabel
	}

	for _, prefix := range noisePrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) &&
			(len(s) == len(prefix) || s[len(prefix)] == ' ') {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	for {
		trimmed := refSuffixRe.ReplaceAllString(s, "")
		trimmed = phoneSuffixRe.ReplaceAllString(trimmed, "")
		trimmed = provinceSuffixRe.ReplaceAllString(trimmed, "")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	s = strings.TrimSpace(s)

	if len(s) < 3 || nonMerchantTokens[strings.ToUpper(s)] {
		return PlaceholderDescription
	}
	return s
}
