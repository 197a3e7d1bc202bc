package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the direction of a ledger transaction
type TxnType string

const (
	TxnCredit TxnType = "credit"
	TxnDebit  TxnType = "debit"
)

// LedgerTransaction is one signed movement on a user's cash account.
// Balances are never mutated directly; each transaction records the
// balance that resulted from applying it.
type LedgerTransaction struct {
	ID           int64           `json:"id"`
	Reference    string          `json:"reference"`
	UserID       int64           `json:"user_id"`
	Type         TxnType         `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Note         string          `json:"note,omitempty"`
	CreatedBy    int64           `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CashDeposit records a collector handing collected cash over to the
// admin account
type CashDeposit struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	CollectorID int64           `json:"collector_id"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        PaymentMode     `json:"mode"`
	DepositedOn time.Time       `json:"deposited_on"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
