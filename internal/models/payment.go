package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how the money was tendered
type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeUPI          PaymentMode = "upi"
	ModeBankTransfer PaymentMode = "bank_transfer"
)

// Payment is an amount tendered on a date against a token or a whole
// batch, recorded by a collector. Payments are append-only: once
// created they are never updated or deleted.
type Payment struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	ReceiptNo   string          `json:"receipt_no"`
	TokenID     *int64          `json:"token_id,omitempty"`
	BatchID     *int64          `json:"batch_id,omitempty"`
	CollectorID int64           `json:"collector_id"`
	Amount      decimal.Decimal `json:"amount"`
	Mode        PaymentMode     `json:"mode"`
	PaidOn      time.Time       `json:"paid_on"`
	HMAC        string          `json:"hmac"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ValidMode reports whether m is one of the accepted payment modes
func ValidMode(m PaymentMode) bool {
	switch m {
	case ModeCash, ModeUPI, ModeBankTransfer:
		return true
	}
	return false
}
