package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleledger/maple/internal/model"
	"github.com/mapleledger/maple/internal/service"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testTransaction(userID string, date time.Time, amount string, direction model.Direction) model.Transaction {
	txn := model.Transaction{
		UserID:      userID,
		Date:        date,
		Description: "TEST MERCHANT",
		Amount:      decimal.RequireFromString(amount),
		Currency:    "CAD",
		Direction:   direction,
		Category:    model.CategoryUncategorized,
		Source:      model.SourceCSV,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestSaveTransactions(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		testTransaction("42", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "25.50", model.DirectionDebit),
		testTransaction("42", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), "2100.00", model.DirectionCredit),
	}

	inserted, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	count, err := store.CountTransactions(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSaveTransactions_DuplicatesIgnored(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		testTransaction("42", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "25.50", model.DirectionDebit),
	}

	inserted, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	// Re-importing the same statement inserts nothing.
	inserted, err = store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	count, err := store.CountTransactions(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSaveTransactions_Empty(t *testing.T) {
	store := setupTestStorage(t)

	inserted, err := store.SaveTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
}

func TestGetTransactions_RoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	balance := decimal.RequireFromString("995.50")
	posted := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	txn := testTransaction("42", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), "4.50", model.DirectionDebit)
	txn.CardLast4 = "9691"
	txn.BalanceAfter = &balance
	txn.PostedDate = &posted
	txn.Hash = txn.GenerateHash()

	_, err := store.SaveTransactions(ctx, []model.Transaction{txn})
	require.NoError(t, err)

	got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "42"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, txn.Hash, got[0].Hash)
	assert.True(t, got[0].Date.Equal(txn.Date))
	assert.Equal(t, "4.50", got[0].Amount.StringFixed(2))
	assert.Equal(t, model.DirectionDebit, got[0].Direction)
	assert.Equal(t, "9691", got[0].CardLast4)
	require.NotNil(t, got[0].BalanceAfter)
	assert.Equal(t, "995.50", got[0].BalanceAfter.StringFixed(2))
	require.NotNil(t, got[0].PostedDate)
	assert.True(t, got[0].PostedDate.Equal(posted))
}

func TestGetTransactions_Filter(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		testTransaction("42", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "1.00", model.DirectionDebit),
		testTransaction("42", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), "2.00", model.DirectionDebit),
		testTransaction("7", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), "3.00", model.DirectionDebit),
	}
	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	got, err := store.GetTransactions(ctx, service.TransactionFilter{UserID: "42", StartDate: &start})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2.00", got[0].Amount.StringFixed(2))
}

func TestMigrate_Idempotent(t *testing.T) {
	store := setupTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}
