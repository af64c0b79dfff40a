package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mapleledger/maple/internal/model"
	"github.com/mapleledger/maple/internal/service"
)

const dateLayout = "2006-01-02"

// SaveTransactions saves canonical transactions and returns how many rows
// were actually inserted. Duplicates (same dedupe hash) are ignored, so
// re-importing the same statement file is safe.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(transactions) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			hash, user_id, date, posted_date, description, amount,
			currency, direction, category, source, card_last4, balance_after
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var inserted int64
	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		res, execErr := stmt.ExecContext(ctx,
			txn.Hash,
			txn.UserID,
			txn.Date.Format(dateLayout),
			nullDate(txn.PostedDate),
			txn.Description,
			txn.Amount.StringFixed(2),
			txn.Currency,
			string(txn.Direction),
			txn.Category,
			string(txn.Source),
			nullString(txn.CardLast4),
			nullDecimal(txn.BalanceAfter),
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction: %w", execErr)
		}

		n, affErr := res.RowsAffected()
		if affErr != nil {
			return 0, fmt.Errorf("failed to count inserted rows: %w", affErr)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("Saved transactions",
		"received", len(transactions),
		"inserted", inserted,
		"duplicates", int64(len(transactions))-inserted)

	return inserted, nil
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT hash, user_id, date, posted_date, description, amount,
		       currency, direction, category, source, card_last4, balance_after
		FROM transactions
		WHERE 1=1
	`
	var args []any

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, filter.EndDate.Format(dateLayout))
	}

	query += " ORDER BY date DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// CountTransactions returns the number of stored transactions for a user.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, userID string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		txn          model.Transaction
		date         string
		postedDate   sql.NullString
		amount       string
		direction    string
		source       string
		cardLast4    sql.NullString
		balanceAfter sql.NullString
	)

	if err := rows.Scan(&txn.Hash, &txn.UserID, &date, &postedDate, &txn.Description,
		&amount, &txn.Currency, &direction, &txn.Category, &source,
		&cardLast4, &balanceAfter); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	parsedDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse stored date %q: %w", date, err)
	}
	txn.Date = parsedDate

	if postedDate.Valid {
		posted, parseErr := time.Parse(dateLayout, postedDate.String)
		if parseErr != nil {
			return model.Transaction{}, fmt.Errorf("failed to parse stored posted date %q: %w", postedDate.String, parseErr)
		}
		txn.PostedDate = &posted
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	txn.Amount = parsedAmount

	if balanceAfter.Valid {
		bal, parseErr := decimal.NewFromString(balanceAfter.String)
		if parseErr != nil {
			return model.Transaction{}, fmt.Errorf("failed to parse stored balance %q: %w", balanceAfter.String, parseErr)
		}
		txn.BalanceAfter = &bal
	}

	txn.Direction = model.Direction(direction)
	txn.Source = model.Source(source)
	txn.CardLast4 = cardLast4.String

	return txn, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}
