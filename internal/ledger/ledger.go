// Package ledger implements the append-only running-balance arithmetic
// shared by admin and collector cash accounts.
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

var (
	// ErrInvalidAmount rejects non-positive transaction amounts
	ErrInvalidAmount = errors.New("transaction amount must be positive")

	// ErrOverdraw rejects a debit that would take the balance negative
	ErrOverdraw = errors.New("insufficient balance")
)

// Append computes the balance that results from applying one signed
// transaction to the previous balance. Credits add, debits subtract.
// Debits that would overdraw are rejected unless allowOverdraw is set
// (admin adjustments only); collector cash accounts never go negative.
func Append(prev decimal.Decimal, txType models.TxnType, amount decimal.Decimal, allowOverdraw bool) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return prev, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	switch txType {
	case models.TxnCredit:
		return prev.Add(amount), nil
	case models.TxnDebit:
		next := prev.Sub(amount)
		if next.IsNegative() && !allowOverdraw {
			return prev, fmt.Errorf("%w: balance %s, debit %s", ErrOverdraw, prev, amount)
		}
		return next, nil
	default:
		return prev, fmt.Errorf("unknown transaction type %q", txType)
	}
}

// NewTransaction builds a ledger transaction with a fresh reference and
// the balance that results from applying it
func NewTransaction(userID int64, txType models.TxnType, amount, prev decimal.Decimal, note string, createdBy int64, allowOverdraw bool) (models.LedgerTransaction, error) {
	after, err := Append(prev, txType, amount, allowOverdraw)
	if err != nil {
		return models.LedgerTransaction{}, err
	}
	return models.LedgerTransaction{
		Reference:    uuid.NewString(),
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: after,
		Note:         note,
		CreatedBy:    createdBy,
	}, nil
}

// Replay recomputes the running balance over a transaction history and
// reports the first inconsistency, if any. Used as a consistency check
// on account screens.
func Replay(txns []models.LedgerTransaction) (decimal.Decimal, error) {
	balance := decimal.Zero
	for i, txn := range txns {
		next, err := Append(balance, txn.Type, txn.Amount, true)
		if err != nil {
			return balance, fmt.Errorf("transaction %d (%s): %w", i, txn.Reference, err)
		}
		if !next.Equal(txn.BalanceAfter) {
			return balance, fmt.Errorf("transaction %d (%s): recorded balance %s, recomputed %s",
				i, txn.Reference, txn.BalanceAfter, next)
		}
		balance = next
	}
	return balance, nil
}
