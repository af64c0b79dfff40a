package ingest

import (
	"github.com/mapleledger/maple/internal/model"
)

// Context carries the caller-supplied defaults stamped onto every canonical
// transaction: the owning user, the currency when the export names none,
// and the provenance tag.
type Context struct {
	UserID   string
	Currency string
	Source   model.Source
}

// ToCanonical maps validated rows 1:1 into canonical transactions. It is
// total: validation already established every invariant, so there is no
// failure mode here. Posted date and balance stay absent unless the source
// row supplied them.
func ToCanonical(rows []ValidatedRow, ctx Context) []model.Transaction {
	currency := ctx.Currency
	if currency == "" {
		currency = "CAD"
	}
	source := ctx.Source
	if source == "" {
		source = model.SourceCSV
	}

	out := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		desc := row.Description
		if desc == "" {
			desc = PlaceholderDescription
		}
		if len(desc) > model.MaxDescriptionLen {
			desc = desc[:model.MaxDescriptionLen]
		}

		t := model.Transaction{
			UserID:       ctx.UserID,
			Date:         row.Date,
			Description:  desc,
			Amount:       row.Amount,
			Currency:     currency,
			Direction:    row.Direction,
			Category:     model.CategoryUncategorized,
			Source:       source,
			CardLast4:    row.CardLast4,
			BalanceAfter: row.Balance,
		}
		t.Hash = t.GenerateHash()
		out = append(out, t)
	}
	return out
}
