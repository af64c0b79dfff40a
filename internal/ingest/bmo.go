package ingest

// ParseBMO parses both common BMO layouts:
//
//	Date,Description,Amount,Balance
//	Date,Description,Debit,Credit,Balance
//
// Date and Description are required. Whether a file carries a single signed
// Amount column or split Debit/Credit columns is preserved on the row, so
// the validator can apply the matching direction rule.
func ParseBMO(rows [][]string) ([]Row, error) {
	if len(rows) < 2 {
		return nil, nil
	}

	idx := indexHeader(rows[0])
	iDate, okDate := idx["date"]
	iDesc, okDesc := idx["description"]
	iAmount, okAmount := idx["amount"]
	iDebit, okDebit := idx["debit"]
	iCredit, okCredit := idx["credit"]
	iBal, okBal := idx["balance"]

	var missing []string
	if !okDate {
		missing = append(missing, "Date")
	}
	if !okDesc {
		missing = append(missing, "Description")
	}
	if len(missing) > 0 {
		return nil, &MissingHeaderError{Bank: BankBMO, Missing: missing}
	}

	out := make([]Row, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if blankRow(r) {
			continue
		}
		out = append(out, BMORow{
			Date:        col(r, iDate),
			Description: col(r, iDesc),
			Amount:      optionalCol(r, iAmount, okAmount),
			Debit:       optionalCol(r, iDebit, okDebit),
			Credit:      optionalCol(r, iCredit, okCredit),
			Balance:     optionalCol(r, iBal, okBal),
		})
	}
	return out, nil
}
