package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mapleledger/maple/internal/model"
)

// Mode selects how row-level failures are reported.
type Mode int

// Validation modes. Lenient returns the valid subset plus the error list;
// Strict rejects the whole batch when any row fails.
const (
	Lenient Mode = iota
	Strict
)

// MaxReportedRowErrors caps how many row messages a BatchError carries. The
// total count is always reported alongside, never silently truncated.
const MaxReportedRowErrors = 10

// RowError describes a single rejected row. Row numbers are 1-based over
// the parsed data rows.
type RowError struct {
	Reason string
	Row    int
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// BatchError aggregates row-level failures when strict validation rejects
// a file.
type BatchError struct {
	Errors []RowError
	Total  int
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, re := range e.Errors {
		msgs[i] = re.Error()
	}
	return fmt.Sprintf("validation failed with %d row error(s): %s", e.Total, strings.Join(msgs, "; "))
}

// ValidatedRow is an invariant-checked, normalized row: a real UTC calendar
// date, an unsigned two-decimal amount, and a derived direction.
type ValidatedRow struct {
	Date        time.Time
	Balance     *decimal.Decimal
	Description string
	CardLast4   string
	Direction   model.Direction
	Amount      decimal.Decimal
}

// ValidateRows checks every intermediate row and normalizes the survivors.
// In Lenient mode it returns the valid subset together with all row errors.
// In Strict mode any row error rejects the batch: the returned error is a
// *BatchError carrying the first MaxReportedRowErrors messages plus the
// total count.
func ValidateRows(rows []Row, mode Mode) ([]ValidatedRow, []RowError, error) {
	valid := make([]ValidatedRow, 0, len(rows))
	var rowErrs []RowError

	for i, row := range rows {
		v, err := validateRow(row)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		valid = append(valid, v)
	}

	if mode == Strict && len(rowErrs) > 0 {
		reported := rowErrs
		if len(reported) > MaxReportedRowErrors {
			reported = reported[:MaxReportedRowErrors]
		}
		return nil, rowErrs, &BatchError{Total: len(rowErrs), Errors: reported}
	}

	return valid, rowErrs, nil
}

// validateRow dispatches on the bank-specific row variant to apply the
// matching direction-derivation rule.
func validateRow(row Row) (ValidatedRow, error) {
	switch r := row.(type) {
	case CIBCDebitRow:
		return validateSplitRow(r.Date, r.Description, r.Debit, r.Credit, "debit", "credit", r.CardMasked, nil)
	case CIBCCreditRow:
		return validateSignedRow(r.Date, r.Description, r.Amount, r.CardMasked, nil, true)
	case RBCRow:
		return validateSplitRow(r.Date, r.Description, deref(r.Withdrawals), deref(r.Deposits), "withdrawals", "deposits", "", r.Balance)
	case TDRow:
		return validateSplitRow(r.Date, r.Description, deref(r.Withdrawal), deref(r.Deposit), "withdrawal", "deposit", "", r.Balance)
	case BMORow:
		if r.Amount != nil && *r.Amount != "" {
			return validateSignedRow(r.Date, r.Description, *r.Amount, "", r.Balance, false)
		}
		if r.Debit != nil || r.Credit != nil {
			return validateSplitRow(r.Date, r.Description, deref(r.Debit), deref(r.Credit), "debit", "credit", "", r.Balance)
		}
		return ValidatedRow{}, fmt.Errorf("missing amount")
	default:
		return ValidatedRow{}, fmt.Errorf("unrecognized row variant %T", row)
	}
}

// validateSplitRow handles layouts where money direction comes from which
// of two columns is populated. Exactly one must hold a positive amount.
func validateSplitRow(date, desc, debit, credit, debitLabel, creditLabel, cardMasked string, balance *string) (ValidatedRow, error) {
	d, err := parseDate(date)
	if err != nil {
		return ValidatedRow{}, err
	}

	hasDebit := debit != ""
	hasCredit := credit != ""
	switch {
	case hasDebit && hasCredit:
		return ValidatedRow{}, fmt.Errorf("both %s and %s present (%s=%q, %s=%q)",
			debitLabel, creditLabel, debitLabel, debit, creditLabel, credit)
	case !hasDebit && !hasCredit:
		return ValidatedRow{}, fmt.Errorf("both %s and %s empty", debitLabel, creditLabel)
	}

	raw, label := debit, debitLabel
	direction := model.DirectionDebit
	if hasCredit {
		raw, label = credit, creditLabel
		direction = model.DirectionCredit
	}

	amount, err := parseMoney(raw)
	if err != nil {
		return ValidatedRow{}, fmt.Errorf("invalid %s amount %q", label, raw)
	}
	if !amount.IsPositive() {
		return ValidatedRow{}, fmt.Errorf("%s amount must be positive, got %q", label, raw)
	}

	return ValidatedRow{
		Date:        d,
		Description: collapseSpaces(desc),
		Amount:      amount,
		Direction:   direction,
		CardLast4:   cardLast4(cardMasked),
		Balance:     parseBalance(balance),
	}, nil
}

// validateSignedRow handles layouts with a single signed amount column.
// Negative means money received (CREDIT); non-negative means money spent
// (DEBIT). The amount is stored unsigned.
func validateSignedRow(date, desc, amountRaw, cardMasked string, balance *string, cleanDesc bool) (ValidatedRow, error) {
	d, err := parseDate(date)
	if err != nil {
		return ValidatedRow{}, err
	}

	if amountRaw == "" {
		return ValidatedRow{}, fmt.Errorf("missing amount")
	}
	signed, err := parseMoney(amountRaw)
	if err != nil {
		return ValidatedRow{}, fmt.Errorf("invalid amount %q", amountRaw)
	}

	direction := model.DirectionDebit
	amount := signed
	if signed.IsNegative() {
		direction = model.DirectionCredit
		amount = signed.Neg()
	}
	if !amount.IsPositive() {
		return ValidatedRow{}, fmt.Errorf("amount must be non-zero, got %q", amountRaw)
	}

	description := collapseSpaces(desc)
	if cleanDesc {
		description = CleanCardDescription(desc)
	}

	return ValidatedRow{
		Date:        d,
		Description: description,
		Amount:      amount,
		Direction:   direction,
		CardLast4:   cardLast4(cardMasked),
		Balance:     parseBalance(balance),
	}, nil
}

var nonDigitRe = regexp.MustCompile(`\D`)

// parseDate accepts only the exact YYYY-MM-DD pattern and parses it as a
// UTC calendar date. Locale- or timezone-sensitive parsing would shift
// dates by a day across timezones.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !isoDateRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: not a calendar date", s)
	}
	return t, nil
}

// parseMoney strips currency symbols, thousands separators and optional
// parentheses (which denote a negative value), then parses the remainder as
// an exact decimal normalized to two places. Floats never carry money.
func parseMoney(s string) (decimal.Decimal, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")
	t = strings.NewReplacer("(", "", ")", "", "$", "", ",", "").Replace(t)

	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(2), nil
}

// parseBalance is best-effort: a missing or unparseable running balance is
// recorded as absent rather than failing the row.
func parseBalance(s *string) *decimal.Decimal {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := parseMoney(*s)
	if err != nil {
		return nil
	}
	return &d
}

// cardLast4 keeps the last four digits of a masked card number, or returns
// empty when fewer than four digits survive.
func cardLast4(masked string) string {
	digits := nonDigitRe.ReplaceAllString(masked, "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
