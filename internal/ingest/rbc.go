package ingest

import "strings"

// ParseRBC parses both RBC export variants:
//
//	Transaction Date,Description,Withdrawals,Deposits,Balance
//	Account Type,Account Number,Transaction Date,Cheque Number,
//	    Description 1,Description 2,CAD$,USD$
//
// Transaction Date and a description column are required; everything else
// is optional. In the wide export, amounts arriving in the CAD$ or USD$
// column are carried as deposits, matching the classic layout's shape.
func ParseRBC(rows [][]string) ([]Row, error) {
	if len(rows) < 2 {
		return nil, nil
	}

	idx := indexHeader(rows[0])
	iDate, okDate := idx["transaction date"]
	if !okDate {
		iDate, okDate = idx["date"]
	}
	iDesc, okDesc := idx["description"]
	iDesc1, okDesc1 := idx["description 1"]
	iDesc2, okDesc2 := idx["description 2"]
	iWith, okWith := idx["withdrawals"]
	iDep, okDep := idx["deposits"]
	iCad, okCad := idx["cad$"]
	iUsd, okUsd := idx["usd$"]
	iBal, okBal := idx["balance"]

	var missing []string
	if !okDate {
		missing = append(missing, "Transaction Date")
	}
	if !okDesc && !okDesc1 {
		missing = append(missing, "Description (or Description 1)")
	}
	if len(missing) > 0 {
		return nil, &MissingHeaderError{Bank: BankRBC, Missing: missing}
	}

	out := make([]Row, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if blankRow(r) {
			continue
		}

		var desc string
		if okDesc {
			desc = col(r, iDesc)
		} else {
			parts := make([]string, 0, 2)
			if v := col(r, iDesc1); v != "" {
				parts = append(parts, v)
			}
			if okDesc2 {
				if v := col(r, iDesc2); v != "" {
					parts = append(parts, v)
				}
			}
			desc = strings.Join(parts, " ")
		}

		deposits := optionalCol(r, iDep, okDep)
		if (deposits == nil || *deposits == "") && (okCad || okUsd) {
			v := ""
			if okCad {
				v = col(r, iCad)
			}
			if v == "" && okUsd {
				v = col(r, iUsd)
			}
			if v != "" {
				deposits = &v
			}
		}

		out = append(out, RBCRow{
			Date:        col(r, iDate),
			Description: desc,
			Withdrawals: optionalCol(r, iWith, okWith),
			Deposits:    deposits,
			Balance:     optionalCol(r, iBal, okBal),
		})
	}
	return out, nil
}
