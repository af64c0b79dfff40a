// Package ingest implements the statement ingestion pipeline: bank format
// detection, per-bank CSV parsing, row validation and normalization, and
// mapping to canonical transactions.
package ingest

// BankID identifies a supported bank export format.
type BankID string

// Supported banks, plus the sentinel for undetectable files.
const (
	BankCIBC    BankID = "CIBC"
	BankRBC     BankID = "RBC"
	BankTD      BankID = "TD"
	BankBMO     BankID = "BMO"
	BankUnknown BankID = "UNKNOWN"
)

// SupportedBanks lists every bank the pipeline can parse, in the order they
// are named in user-facing errors.
func SupportedBanks() []BankID {
	return []BankID{BankCIBC, BankRBC, BankTD, BankBMO}
}
