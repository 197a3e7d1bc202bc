package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/ledger"
	"github.com/microfin/collection-service/internal/models"
)

// RecordCashDeposit books a collector handing collected cash over to
// the admin account: one debit on the collector's ledger, one credit on
// the admin's, and the deposit record, all in one transaction. The
// collector's account cannot be overdrawn.
func (s *Service) RecordCashDeposit(ctx context.Context, collectorID int64, amount decimal.Decimal, mode models.PaymentMode, depositedOn time.Time, note string) (*models.CashDeposit, error) {
	adminID, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	if !models.ValidMode(mode) {
		return nil, fmt.Errorf("invalid deposit mode %q", mode)
	}
	collector, err := s.repo.FindUserByID(collectorID)
	if err != nil {
		return nil, err
	}
	if collector.Role != models.RoleCollector {
		return nil, fmt.Errorf("user %d is not a collector", collectorID)
	}

	deposit := &models.CashDeposit{
		Reference:   uuid.NewString(),
		CollectorID: collectorID,
		Amount:      amount,
		Mode:        mode,
		DepositedOn: depositedOn,
		Note:        note,
	}

	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		collectorBalance, err := s.repo.LastBalance(tx, collectorID)
		if err != nil {
			return err
		}
		debit, err := ledger.NewTransaction(collectorID, models.TxnDebit, amount, collectorBalance,
			fmt.Sprintf("cash deposit %s", deposit.Reference), adminID, false)
		if err != nil {
			return err
		}
		if err := s.repo.AppendLedger(tx, &debit); err != nil {
			return err
		}

		adminBalance, err := s.repo.LastBalance(tx, adminID)
		if err != nil {
			return err
		}
		credit, err := ledger.NewTransaction(adminID, models.TxnCredit, amount, adminBalance,
			fmt.Sprintf("deposit from collector %d", collectorID), adminID, false)
		if err != nil {
			return err
		}
		if err := s.repo.AppendLedger(tx, &credit); err != nil {
			return err
		}

		return s.repo.CreateCashDeposit(tx, deposit)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Cash deposit %s: %s from collector %d", deposit.Reference, amount, collectorID)
	return deposit, nil
}

// AccountStatement is a user's recent ledger history with the current
// balance and a replay consistency check
type AccountStatement struct {
	UserID       int64                      `json:"user_id"`
	Balance      decimal.Decimal            `json:"balance"`
	Transactions []models.LedgerTransaction `json:"transactions"`
}

// GetStatement retrieves a user's ledger statement. The history is
// replayed oldest-first to verify recorded balances before serving.
func (s *Service) GetStatement(targetUserID int64, limit int) (*AccountStatement, error) {
	txns, err := s.repo.ListLedger(targetUserID, limit)
	if err != nil {
		return nil, err
	}

	statement := &AccountStatement{
		UserID:       targetUserID,
		Balance:      decimal.Zero,
		Transactions: txns,
	}
	if len(txns) > 0 {
		statement.Balance = txns[0].BalanceAfter

		// Replay the window oldest-first as a consistency check: each
		// recorded balance must follow from the previous one.
		oldestFirst := make([]models.LedgerTransaction, len(txns))
		for i, t := range txns {
			oldestFirst[len(txns)-1-i] = t
		}
		prev := decimal.Zero
		for i, t := range oldestFirst {
			if i == 0 {
				// The window may not start at account opening; trust
				// the first row's base and verify the chain from there.
				prev = t.BalanceAfter
				continue
			}
			next, err := ledger.Append(prev, t.Type, t.Amount, true)
			if err != nil || !next.Equal(t.BalanceAfter) {
				return nil, fmt.Errorf("ledger inconsistency at transaction %s for user %d", t.Reference, targetUserID)
			}
			prev = next
		}
	}
	return statement, nil
}

// ListCashDeposits retrieves deposits, optionally for one collector
func (s *Service) ListCashDeposits(collectorID int64) ([]models.CashDeposit, error) {
	return s.repo.ListCashDeposits(collectorID)
}
