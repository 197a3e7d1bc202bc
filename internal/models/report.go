package models

import "github.com/shopspring/decimal"

// CollectorCollection is one collector's share of a day's collections
type CollectorCollection struct {
	CollectorID   int64           `json:"collector_id"`
	CollectorName string          `json:"collector_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentCount  int             `json:"payment_count"`
}

// DailyCollectionSummary aggregates one day's collections
type DailyCollectionSummary struct {
	Date         string                `json:"date"` // Format: YYYY-MM-DD
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	CashAmount   decimal.Decimal       `json:"cash_amount"`
	UPIAmount    decimal.Decimal       `json:"upi_amount"`
	BankAmount   decimal.Decimal       `json:"bank_amount"`
	PaymentCount int                   `json:"payment_count"`
	ByCollector  []CollectorCollection `json:"by_collector"`
}

// OverdueAgingRow is one overdue token in the aging report
type OverdueAgingRow struct {
	TokenID        int64           `json:"token_id"`
	CustomerID     int64           `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	DaysOverdue    int             `json:"days_overdue"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	PenaltyAccrued decimal.Decimal `json:"penalty_accrued"`
}
