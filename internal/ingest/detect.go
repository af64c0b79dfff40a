package ingest

import (
	"regexp"
	"strings"
)

// signature describes how a bank's export headers are recognized. A file
// matches when, for at least one of the alternative required-token sets,
// the number of tokens present in the header reaches the threshold
// (explicit, or ceil(0.6 × set size) when unset).
type signature struct {
	bank      BankID
	anyOf     [][]string
	threshold int
}

// signatures is process-wide constant data, safe for concurrent use.
var signatures = []signature{
	{
		bank: BankCIBC,
		anyOf: [][]string{
			{"date", "description", "debit", "credit"},
			{"date", "description", "amount"},
		},
		threshold: 2,
	},
	{
		bank: BankRBC,
		anyOf: [][]string{
			{"transaction date", "description", "withdrawals", "deposits"},
			{"date", "description", "withdrawals", "deposits"},
			{"account type", "account number", "transaction date", "description 1", "cad$"},
			{"account type", "account number", "transaction date", "description 1", "usd$"},
		},
		threshold: 2,
	},
	{
		bank: BankTD,
		anyOf: [][]string{
			{"date", "description", "withdrawal", "deposit"},
			{"transaction date", "description", "withdrawal", "deposit"},
		},
		threshold: 2,
	},
	{
		bank: BankBMO,
		anyOf: [][]string{
			{"date", "description", "amount", "balance"},
			{"date", "description", "debit", "credit"},
		},
		threshold: 2,
	},
}

var (
	spaceRe        = regexp.MustCompile(`\s+`)
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	maskedDigitsRe = regexp.MustCompile(`\*{4,}`)
)

// normalizeHeader canonicalizes one header token: BOM stripped, trimmed,
// lower-cased, internal whitespace collapsed to single spaces.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.TrimSpace(h)
	h = strings.ToLower(h)
	return spaceRe.ReplaceAllString(h, " ")
}

// candidate is one matching signature set, ranked by score and specificity.
type candidate struct {
	bank    BankID
	score   int
	setSize int
}

// beats reports whether c outranks other: higher score first, then the
// larger required set (the more specific signature wins a score tie).
func (c candidate) beats(other candidate) bool {
	if c.score != other.score {
		return c.score > other.score
	}
	return c.setSize > other.setSize
}

// Detect scores the normalized header tokens against every bank signature
// and returns the best match, or BankUnknown when no set reaches its
// threshold. Detection never fails.
func Detect(header []string) BankID {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		if n := normalizeHeader(h); n != "" {
			present[n] = true
		}
	}
	if len(present) == 0 {
		return BankUnknown
	}

	best := candidate{bank: BankUnknown}
	for _, sig := range signatures {
		for _, required := range sig.anyOf {
			score := 0
			for _, tok := range required {
				if present[normalizeHeader(tok)] {
					score++
				}
			}
			threshold := sig.threshold
			if threshold == 0 {
				threshold = (len(required)*3 + 4) / 5 // ceil(0.6 × n)
			}
			if score < threshold {
				continue
			}
			c := candidate{bank: sig.bank, score: score, setSize: len(required)}
			if c.beats(best) {
				best = c
			}
		}
	}
	return best.bank
}

// HeaderSets returns copies of the header-token alternatives recognized for
// a bank, in detection order. Unknown banks yield nil.
func HeaderSets(bank BankID) [][]string {
	for _, sig := range signatures {
		if sig.bank != bank {
			continue
		}
		sets := make([][]string, len(sig.anyOf))
		for i, required := range sig.anyOf {
			sets[i] = append([]string(nil), required...)
		}
		return sets
	}
	return nil
}

// DetectText tokenizes raw CSV text and attempts header-based detection on
// the first row, falling back to the headerless shape heuristic.
func DetectText(text string) BankID {
	return detectRows(Tokenize(text))
}

func detectRows(rows [][]string) BankID {
	if len(rows) == 0 {
		return BankUnknown
	}

	if bank := Detect(rows[0]); bank != BankUnknown {
		return bank
	}

	// Headerless fallback: CIBC chequing exports omit the header and ship
	// exactly 5 columns with an ISO date first and a masked card number
	// last. No other bank's headerless shape is guessed.
	first := rows[0]
	if len(first) == 5 &&
		isoDateRe.MatchString(strings.TrimSpace(first[0])) &&
		maskedDigitsRe.MatchString(first[4]) {
		return BankCIBC
	}

	return BankUnknown
}
