package ingest

import "fmt"

// ParseCIBC parses a CIBC export. Headerless files are the fixed 5-column
// chequing layout (date, description, debit, credit, masked card). Headered
// files carry either split debit/credit columns or the credit-card layout's
// single signed amount column.
func ParseCIBC(rows [][]string) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if isoDateRe.MatchString(col(rows[0], 0)) {
		return parseCIBCHeaderless(rows)
	}

	idx := indexHeader(rows[0])
	if _, ok := idx["amount"]; ok {
		return parseCIBCCreditHeadered(idx, rows[1:])
	}
	return parseCIBCDebitHeadered(idx, rows[1:])
}

// parseCIBCHeaderless handles the chequing export. The column count is
// fixed; a short or long row fails the whole file, since positional parsing
// cannot recover from shifted columns.
func parseCIBCHeaderless(rows [][]string) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for i, r := range rows {
		if len(r) != 5 {
			return nil, fmt.Errorf("invalid CIBC CSV at row %d: expected 5 columns, got %d", i+1, len(r))
		}
		out = append(out, CIBCDebitRow{
			Date:        col(r, 0),
			Description: col(r, 1),
			Debit:       col(r, 2),
			Credit:      col(r, 3),
			CardMasked:  col(r, 4),
		})
	}
	return out, nil
}

func parseCIBCDebitHeadered(idx headerIndex, rows [][]string) ([]Row, error) {
	var missing []string
	iDate, okDate := idx["date"]
	iDesc, okDesc := idx["description"]
	iDebit, okDebit := idx["debit"]
	iCredit, okCredit := idx["credit"]
	if !okDate {
		missing = append(missing, "Date")
	}
	if !okDesc {
		missing = append(missing, "Description")
	}
	if !okDebit {
		missing = append(missing, "Debit")
	}
	if !okCredit {
		missing = append(missing, "Credit")
	}
	if len(missing) > 0 {
		return nil, &MissingHeaderError{Bank: BankCIBC, Missing: missing}
	}

	iCard, okCard := idx["card number"]

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if blankRow(r) {
			continue
		}
		card := ""
		if okCard {
			card = col(r, iCard)
		}
		out = append(out, CIBCDebitRow{
			Date:        col(r, iDate),
			Description: col(r, iDesc),
			Debit:       col(r, iDebit),
			Credit:      col(r, iCredit),
			CardMasked:  card,
		})
	}
	return out, nil
}

func parseCIBCCreditHeadered(idx headerIndex, rows [][]string) ([]Row, error) {
	var missing []string
	iDate, okDate := idx["date"]
	iDesc, okDesc := idx["description"]
	iAmount, okAmount := idx["amount"]
	if !okDate {
		missing = append(missing, "Date")
	}
	if !okDesc {
		missing = append(missing, "Description")
	}
	if !okAmount {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return nil, &MissingHeaderError{Bank: BankCIBC, Missing: missing}
	}

	iCard, okCard := idx["card number"]

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if blankRow(r) {
			continue
		}
		card := ""
		if okCard {
			card = col(r, iCard)
		}
		out = append(out, CIBCCreditRow{
			Date:        col(r, iDate),
			Description: col(r, iDesc),
			Amount:      col(r, iAmount),
			CardMasked:  card,
		})
	}
	return out, nil
}

// ParseCIBCCredit parses the headerless CIBC credit-card export:
// date, description, signed amount, blank, masked card number. Rows with
// fewer than three columns are skipped. The parse is total; bad values are
// left for row validation.
func ParseCIBCCredit(rows [][]string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if len(r) < 3 || blankRow(r) {
			continue
		}
		out = append(out, CIBCCreditRow{
			Date:        col(r, 0),
			Description: col(r, 1),
			Amount:      col(r, 2),
			CardMasked:  col(r, 4),
		})
	}
	return out
}
