package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCIBC_Headerless(t *testing.T) {
	rows := Tokenize("2026-02-01,UBER TRIP,25.50,,4505********9691\n" +
		"2026-02-03,PAYROLL DEPOSIT,,2100.00,4505********9691\n")

	parsed, err := ParseCIBC(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	first, ok := parsed[0].(CIBCDebitRow)
	require.True(t, ok)
	assert.Equal(t, "2026-02-01", first.Date)
	assert.Equal(t, "UBER TRIP", first.Description)
	assert.Equal(t, "25.50", first.Debit)
	assert.Equal(t, "", first.Credit)
	assert.Equal(t, "4505********9691", first.CardMasked)

	second, ok := parsed[1].(CIBCDebitRow)
	require.True(t, ok)
	assert.Equal(t, "", second.Debit)
	assert.Equal(t, "2100.00", second.Credit)
}

func TestParseCIBC_HeaderlessWrongColumnCount(t *testing.T) {
	rows := Tokenize("2026-02-01,UBER TRIP,25.50,,4505********9691\n" +
		"2026-02-02,SHORT ROW,1.00\n")

	_, err := ParseCIBC(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "expected 5 columns")
}

func TestParseCIBC_HeaderedDebitCredit(t *testing.T) {
	rows := Tokenize("Date,Description,Debit,Credit\n" +
		"2026-02-01,GROCERIES,54.10,\n" +
		"2026-02-02,REFUND,,12.00\n")

	parsed, err := ParseCIBC(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	row, ok := parsed[0].(CIBCDebitRow)
	require.True(t, ok)
	assert.Equal(t, "54.10", row.Debit)
	assert.Equal(t, "", row.CardMasked)
}

func TestParseCIBC_HeaderedCredit(t *testing.T) {
	rows := Tokenize("Date,Description,Amount,Card Number\n" +
		"2026-02-01,UBER TRIP TORONTO ON,25.50,4505********9691\n" +
		"2026-02-05,PAYMENT THANK YOU,(100.00),4505********9691\n")

	parsed, err := ParseCIBC(rows)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	row, ok := parsed[0].(CIBCCreditRow)
	require.True(t, ok)
	assert.Equal(t, "25.50", row.Amount)
	assert.Equal(t, "4505********9691", row.CardMasked)
}

func TestParseCIBC_HeaderedMissingColumns(t *testing.T) {
	rows := Tokenize("Date,Debit,Credit\n2026-02-01,5.00,\n")

	_, err := ParseCIBC(rows)
	var missingErr *MissingHeaderError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, BankCIBC, missingErr.Bank)
	assert.Equal(t, []string{"Description"}, missingErr.Missing)
}

func TestParseCIBCCredit(t *testing.T) {
	rows := Tokenize("2026-02-01,UBER TRIP,25.50,,4505********9691\n" +
		"too,short\n" +
		"2026-02-05,PAYMENT,(100.00),,4505********9691\n")

	parsed := ParseCIBCCredit(rows)
	require.Len(t, parsed, 2)

	row, ok := parsed[0].(CIBCCreditRow)
	require.True(t, ok)
	assert.Equal(t, "UBER TRIP", row.Description)
	assert.Equal(t, "25.50", row.Amount)
	assert.Equal(t, "4505********9691", row.CardMasked)
}

func TestParseCIBC_Empty(t *testing.T) {
	parsed, err := ParseCIBC(nil)
	require.NoError(t, err)
	assert.Empty(t, parsed)
}
