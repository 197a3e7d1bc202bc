package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

// LastBalance reads a user's current ledger balance inside tx, locking
// the latest row so concurrent appends serialize per account
func (r *Repository) LastBalance(tx *sql.Tx, userID int64) (decimal.Decimal, error) {
	query := `
		SELECT balance_after
		FROM collection.ledger_transactions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
		FOR UPDATE`
	var balance decimal.Decimal
	err := tx.QueryRow(query, userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// AppendLedger inserts a ledger transaction inside tx. Balances are
// never updated in place; the row carries its resulting balance.
func (r *Repository) AppendLedger(tx *sql.Tx, txn *models.LedgerTransaction) error {
	query := `
		INSERT INTO collection.ledger_transactions
			(reference, user_id, type, amount, balance_after, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := tx.QueryRow(query,
		txn.Reference, txn.UserID, txn.Type, txn.Amount, txn.BalanceAfter, txn.Note, txn.CreatedBy).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger transaction: %w", err)
	}
	return nil
}

// ListLedger retrieves a user's ledger transactions, newest first
func (r *Repository) ListLedger(userID int64, limit int) ([]models.LedgerTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, reference, user_id, type, amount, balance_after, note, created_by, created_at
		FROM collection.ledger_transactions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.LedgerTransaction
	for rows.Next() {
		var t models.LedgerTransaction
		if err := rows.Scan(&t.ID, &t.Reference, &t.UserID, &t.Type, &t.Amount, &t.BalanceAfter,
			&t.Note, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// CreateCashDeposit inserts a cash deposit record inside tx
func (r *Repository) CreateCashDeposit(tx *sql.Tx, d *models.CashDeposit) error {
	query := `
		INSERT INTO collection.cash_deposits
			(reference, collector_id, amount, mode, deposited_on, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := tx.QueryRow(query,
		d.Reference, d.CollectorID, d.Amount, d.Mode, d.DepositedOn, d.Note).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cash deposit: %w", err)
	}
	return nil
}

// ListCashDeposits retrieves cash deposits, optionally for one collector
func (r *Repository) ListCashDeposits(collectorID int64) ([]models.CashDeposit, error) {
	query := `
		SELECT id, reference, collector_id, amount, mode, deposited_on, note, created_at
		FROM collection.cash_deposits
		WHERE ($1 = 0 OR collector_id = $1)
		ORDER BY id DESC`
	rows, err := r.db.Query(query, collectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash deposits: %w", err)
	}
	defer rows.Close()

	var deposits []models.CashDeposit
	for rows.Next() {
		var d models.CashDeposit
		if err := rows.Scan(&d.ID, &d.Reference, &d.CollectorID, &d.Amount, &d.Mode,
			&d.DepositedOn, &d.Note, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cash deposit: %w", err)
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}
