package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenStatus is the lifecycle state of a token (loan)
type TokenStatus string

const (
	TokenActive    TokenStatus = "active"
	TokenOverdue   TokenStatus = "overdue"
	TokenClosed    TokenStatus = "closed"
	TokenCancelled TokenStatus = "cancelled"
)

// InterestType selects how interest is derived from the principal
type InterestType string

const (
	InterestFixed   InterestType = "fixed"
	InterestPercent InterestType = "percentage"
)

// InterestSpec describes the interest charged on a token: a flat amount
// or a percentage of the principal
type InterestSpec struct {
	Type  InterestType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Token represents a single unit loan issued to a customer
type Token struct {
	ID               int64           `json:"id"`
	CustomerID       int64           `json:"customer_id"`
	BatchID          *int64          `json:"batch_id,omitempty"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         InterestSpec    `json:"interest"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	DurationDays     int             `json:"duration_days"`
	DailyInstallment decimal.Decimal `json:"daily_installment"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Status           TokenStatus     `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Batch represents a group of identical tokens issued together to one
// customer and collected as a single daily sum
type Batch struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	Quantity        int             `json:"quantity"`
	TokenAmount     decimal.Decimal `json:"token_amount"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	DailyCollection decimal.Decimal `json:"daily_collection"`
	DurationDays    int             `json:"duration_days"`
	StartDate       time.Time       `json:"start_date"`
	CreatedAt       time.Time       `json:"created_at"`
}
