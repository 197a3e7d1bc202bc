package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyType selects how a penalty is derived from the installment
type PenaltyType string

const (
	PenaltyFixed   PenaltyType = "fixed"
	PenaltyPercent PenaltyType = "percent"
)

// PenaltyConfig is a penalty accrual rule. At most one configuration is
// active at a time; activation atomically deactivates all others.
type PenaltyConfig struct {
	ID        int64           `json:"id"`
	Type      PenaltyType     `json:"type"`
	Value     decimal.Decimal `json:"value"`
	GraceDays int             `json:"grace_days"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
