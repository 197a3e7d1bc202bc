package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the payment state of a schedule entry
type EntryStatus string

const (
	EntryPending EntryStatus = "pending"
	EntryPartial EntryStatus = "partial"
	EntryPaid    EntryStatus = "paid"
	EntryOverdue EntryStatus = "overdue"
)

// ScheduleEntry represents one day's due installment for a token.
// Entries are created when the token is issued and are only ever
// status-transitioned afterwards, never deleted.
type ScheduleEntry struct {
	ID                int64           `json:"id"`
	TokenID           int64           `json:"token_id"`
	Seq               int             `json:"seq"`
	DueDate           time.Time       `json:"due_date"`
	Installment       decimal.Decimal `json:"installment"`
	Penalty           decimal.Decimal `json:"penalty"`
	PenaltyWaived     decimal.Decimal `json:"penalty_waived"`
	PenaltyOverridden bool            `json:"penalty_overridden"`
	Paid              decimal.Decimal `json:"paid"`
	Status            EntryStatus     `json:"status"`
	PaidOn            *time.Time      `json:"paid_on,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
