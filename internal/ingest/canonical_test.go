package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleledger/maple/internal/model"
)

func TestToCanonical(t *testing.T) {
	balance := decimal.RequireFromString("995.50")
	rows := []ValidatedRow{
		{
			Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Description: "TIM HORTONS",
			Amount:      decimal.RequireFromString("4.50"),
			Direction:   model.DirectionDebit,
			CardLast4:   "9691",
			Balance:     &balance,
		},
		{
			Date:        time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			Description: "PAYROLL DEPOSIT",
			Amount:      decimal.RequireFromString("2100.00"),
			Direction:   model.DirectionCredit,
		},
	}

	out := ToCanonical(rows, Context{UserID: "42"})
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, "42", first.UserID)
	assert.Equal(t, "CAD", first.Currency, "currency defaults to CAD")
	assert.Equal(t, model.SourceCSV, first.Source, "source defaults to CSV")
	assert.Equal(t, model.CategoryUncategorized, first.Category)
	assert.Equal(t, "9691", first.CardLast4)
	require.NotNil(t, first.BalanceAfter)
	assert.Equal(t, "995.50", first.BalanceAfter.StringFixed(2))
	assert.Nil(t, first.PostedDate, "posted date absent unless the source supplied it")
	assert.NotEmpty(t, first.Hash)

	second := out[1]
	assert.Nil(t, second.BalanceAfter)
	assert.Equal(t, model.DirectionCredit, second.Direction)
}

func TestToCanonical_ExplicitContext(t *testing.T) {
	rows := []ValidatedRow{{
		Date:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("1.00"),
		Direction: model.DirectionDebit,
	}}

	out := ToCanonical(rows, Context{UserID: "7", Currency: "USD", Source: model.SourceOFX})
	require.Len(t, out, 1)
	assert.Equal(t, "USD", out[0].Currency)
	assert.Equal(t, model.SourceOFX, out[0].Source)
	assert.Equal(t, PlaceholderDescription, out[0].Description, "empty description gets the placeholder")
}

func TestToCanonical_DescriptionBounded(t *testing.T) {
	rows := []ValidatedRow{{
		Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Description: strings.Repeat("X", 400),
		Amount:      decimal.RequireFromString("1.00"),
		Direction:   model.DirectionDebit,
	}}

	out := ToCanonical(rows, Context{UserID: "1"})
	require.Len(t, out, 1)
	assert.Len(t, out[0].Description, model.MaxDescriptionLen)
}

func TestToCanonical_Deterministic(t *testing.T) {
	rows := []ValidatedRow{{
		Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Description: "COFFEE",
		Amount:      decimal.RequireFromString("4.50"),
		Direction:   model.DirectionDebit,
	}}

	a := ToCanonical(rows, Context{UserID: "42"})
	b := ToCanonical(rows, Context{UserID: "42"})
	assert.Equal(t, a, b, "mapping embeds no timestamps or randomness")
}
