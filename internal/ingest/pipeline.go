package ingest

import (
	"fmt"
	"log/slog"

	"github.com/mapleledger/maple/internal/common"
	"github.com/mapleledger/maple/internal/model"
)

// Result summarizes one processed statement file.
type Result struct {
	Bank         BankID
	Transactions []model.Transaction
	RowErrors    []RowError
	RowsParsed   int
}

// Process runs the full pipeline over one statement file: tokenize, detect
// the bank, parse its layout, validate and normalize rows, and map to
// canonical transactions. It is pure and reentrant; concurrent invocations
// share only the constant signature tables.
//
// Fatal, file-wide failures (undetectable bank, missing required headers,
// strict-mode row errors) are returned as errors; lenient per-row failures
// accumulate in Result.RowErrors.
func Process(text string, ctx Context, mode Mode) (*Result, error) {
	tokenized := Tokenize(text)
	if len(tokenized) == 0 {
		return nil, common.NewUserError("statement file contains no rows", common.ErrEmptyFile)
	}
	bank := detectRows(tokenized)
	if bank == BankUnknown {
		return nil, common.NewUserError(
			fmt.Sprintf("unsupported bank CSV format: please upload a %s statement export", supportedBankList()),
			common.ErrUnsupportedFormat)
	}

	rows, err := parseBank(bank, tokenized)
	if err != nil {
		return nil, err
	}

	return buildResult(bank, rows, ctx, mode)
}

// ProcessCIBCCredit ingests a CIBC credit-card export explicitly, bypassing
// bank detection. The credit layout's generic Date/Description/Amount header
// is too weak a signature for detection to claim it reliably, so callers
// that know the export's origin route it here. Headerless files use the
// positional credit layout; headered files must carry an Amount column.
func ProcessCIBCCredit(text string, ctx Context, mode Mode) (*Result, error) {
	tokenized := Tokenize(text)
	if len(tokenized) == 0 {
		return nil, common.NewUserError("statement file contains no rows", common.ErrEmptyFile)
	}

	var rows []Row
	var err error
	if isoDateRe.MatchString(col(tokenized[0], 0)) {
		rows = ParseCIBCCredit(tokenized)
	} else {
		rows, err = parseCIBCCreditHeadered(indexHeader(tokenized[0]), tokenized[1:])
		if err != nil {
			return nil, err
		}
	}

	return buildResult(BankCIBC, rows, ctx, mode)
}

// ProcessBytes is the byte-buffer entry point for uploaded file content.
func ProcessBytes(data []byte, ctx Context, mode Mode) (*Result, error) {
	return Process(string(data), ctx, mode)
}

func buildResult(bank BankID, rows []Row, ctx Context, mode Mode) (*Result, error) {
	valid, rowErrs, err := ValidateRows(rows, mode)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Bank:         bank,
		RowsParsed:   len(rows),
		Transactions: ToCanonical(valid, ctx),
		RowErrors:    rowErrs,
	}

	slog.Info("Processed statement file",
		"bank", bank,
		"rows_parsed", result.RowsParsed,
		"transactions", len(result.Transactions),
		"row_errors", len(rowErrs))

	return result, nil
}

func parseBank(bank BankID, rows [][]string) ([]Row, error) {
	switch bank {
	case BankCIBC:
		return ParseCIBC(rows)
	case BankRBC:
		return ParseRBC(rows)
	case BankTD:
		return ParseTD(rows)
	case BankBMO:
		return ParseBMO(rows)
	default:
		return nil, common.ErrUnsupportedFormat
	}
}

func supportedBankList() string {
	banks := SupportedBanks()
	list := ""
	for i, b := range banks {
		switch {
		case i == 0:
			list = string(b)
		case i == len(banks)-1:
			list += ", or " + string(b)
		default:
			list += ", " + string(b)
		}
	}
	return list
}
