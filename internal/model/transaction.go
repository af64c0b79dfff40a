// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether money left or entered the account.
type Direction string

// Transaction directions.
const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// Source identifies the provenance of an imported transaction.
type Source string

// Transaction sources.
const (
	SourceCSV Source = "CSV"
	SourceOFX Source = "OFX"
)

// CategoryUncategorized is the placeholder spend category assigned at import
// time. Category assignment proper is a downstream concern.
const CategoryUncategorized = "UNCATEGORIZED"

// MaxDescriptionLen bounds the description stored for a transaction.
const MaxDescriptionLen = 255

// Transaction is the canonical, bank-agnostic record for one ledger entry.
// Amount is always unsigned with two decimal places; Direction carries the
// sign. Date holds calendar-date semantics at UTC midnight.
type Transaction struct {
	Date         time.Time
	PostedDate   *time.Time
	BalanceAfter *decimal.Decimal
	UserID       string
	Description  string
	Hash         string
	Currency     string
	CardLast4    string
	Category     string
	Direction    Direction
	Source       Source
	Amount       decimal.Decimal
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		t.UserID,
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Direction,
		t.Description,
		t.CardLast4)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
