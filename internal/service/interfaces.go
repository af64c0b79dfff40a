// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mapleledger/maple/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	UserID    string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer. The persistence
// side owns surrogate identifiers and deduplication; callers hand it
// canonical transactions and get back the number actually inserted.
type Storage interface {
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int64, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountTransactions(ctx context.Context, userID string) (int64, error)

	Migrate(ctx context.Context) error
	Close() error
}
