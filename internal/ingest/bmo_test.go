package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBMO_AmountLayout(t *testing.T) {
	rows := Tokenize("Date,Description,Amount,Balance\n" +
		"2026-02-01,GROCERIES,54.10,945.90\n" +
		"2026-02-02,REFUND,-12.00,957.90\n")

	parsed, err := ParseBMO(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	first, ok := parsed[0].(BMORow)
	require.True(t, ok)
	require.NotNil(t, first.Amount)
	assert.Equal(t, "54.10", *first.Amount)
	assert.Nil(t, first.Debit)
	assert.Nil(t, first.Credit)
}

func TestParseBMO_DebitCreditLayout(t *testing.T) {
	rows := Tokenize("Date,Description,Debit,Credit,Balance\n" +
		"2026-02-01,GROCERIES,54.10,,945.90\n")

	parsed, err := ParseBMO(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	row, ok := parsed[0].(BMORow)
	require.True(t, ok)
	assert.Nil(t, row.Amount)
	require.NotNil(t, row.Debit)
	assert.Equal(t, "54.10", *row.Debit)
	require.NotNil(t, row.Credit)
	assert.Equal(t, "", *row.Credit)
}

func TestParseBMO_MissingHeaders(t *testing.T) {
	rows := Tokenize("Amount,Balance\n54.10,945.90\n")

	_, err := ParseBMO(rows)
	var missingErr *MissingHeaderError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, BankBMO, missingErr.Bank)
	assert.Equal(t, []string{"Date", "Description"}, missingErr.Missing)
}
