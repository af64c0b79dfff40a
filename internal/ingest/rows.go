package ingest

import (
	"fmt"
	"strings"
)

// Row is one bank-specific intermediate row. Each variant carries exactly
// the fields its bank's layout can supply; the validator switches on the
// concrete type to pick the matching direction-derivation rule.
//
// Optional columns are *string so that "this file has no deposit column"
// (nil) stays distinct from "no deposit this row" (empty string).
type Row interface {
	bankRow()
}

// CIBCDebitRow is one row of the headerless 5-column CIBC chequing export:
// date, description, debit, credit, masked card number.
type CIBCDebitRow struct {
	Date        string
	Description string
	Debit       string
	Credit      string
	CardMasked  string
}

func (CIBCDebitRow) bankRow() {}

// CIBCCreditRow is one row of the CIBC credit-card export, which carries a
// single signed amount instead of split debit/credit columns.
type CIBCCreditRow struct {
	Date        string
	Description string
	Amount      string
	CardMasked  string
}

func (CIBCCreditRow) bankRow() {}

// RBCRow covers both RBC export variants: the classic
// Withdrawals/Deposits layout and the wide account-export whose amounts
// arrive in CAD$/USD$ columns (mapped onto Deposits).
type RBCRow struct {
	Withdrawals *string
	Deposits    *string
	Balance     *string
	Date        string
	Description string
}

func (RBCRow) bankRow() {}

// TDRow is one row of the TD export: Date, Description, Withdrawal,
// Deposit, Balance.
type TDRow struct {
	Withdrawal  *string
	Deposit     *string
	Balance     *string
	Date        string
	Description string
}

func (TDRow) bankRow() {}

// BMORow covers both BMO layouts: a single signed Amount column, or split
// Debit/Credit columns.
type BMORow struct {
	Amount      *string
	Debit       *string
	Credit      *string
	Balance     *string
	Date        string
	Description string
}

func (BMORow) bankRow() {}

// MissingHeaderError reports required header columns absent from a detected
// bank's file. This is fatal for the whole file, unlike per-row validation.
type MissingHeaderError struct {
	Bank    BankID
	Missing []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("%s CSV missing required headers: %s", e.Bank, strings.Join(e.Missing, ", "))
}

// headerIndex maps normalized header names to their column positions.
type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if n == "" {
			continue
		}
		if _, ok := idx[n]; !ok {
			idx[n] = i
		}
	}
	return idx
}

// col returns the trimmed value at position i, tolerating short rows.
func col(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// optionalCol returns the value at i, or nil when the column does not exist
// in this file's layout.
func optionalCol(row []string, i int, present bool) *string {
	if !present {
		return nil
	}
	v := col(row, i)
	return &v
}
