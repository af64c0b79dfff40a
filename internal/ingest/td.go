package ingest

// ParseTD parses the TD export:
//
//	Date,Description,Withdrawal,Deposit,Balance
//
// Date and Description are required; the money and balance columns are
// optional and recorded as absent when the file lacks them.
func ParseTD(rows [][]string) ([]Row, error) {
	if len(rows) < 2 {
		return nil, nil
	}

	idx := indexHeader(rows[0])
	iDate, okDate := idx["date"]
	if !okDate {
		iDate, okDate = idx["transaction date"]
	}
	iDesc, okDesc := idx["description"]
	iWith, okWith := idx["withdrawal"]
	iDep, okDep := idx["deposit"]
	iBal, okBal := idx["balance"]

	var missing []string
	if !okDate {
		missing = append(missing, "Date")
	}
	if !okDesc {
		missing = append(missing, "Description")
	}
	if len(missing) > 0 {
		return nil, &MissingHeaderError{Bank: BankTD, Missing: missing}
	}

	out := make([]Row, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if blankRow(r) {
			continue
		}
		out = append(out, TDRow{
			Date:        col(r, iDate),
			Description: col(r, iDesc),
			Withdrawal:  optionalCol(r, iWith, okWith),
			Deposit:     optionalCol(r, iDep, okDep),
			Balance:     optionalCol(r, iBal, okBal),
		})
	}
	return out, nil
}
