package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

// DailyCollectionSummary aggregates one day's payments by mode and by
// collector
func (r *Repository) DailyCollectionSummary(day time.Time) (*models.DailyCollectionSummary, error) {
	summary := &models.DailyCollectionSummary{
		Date:        day.Format("2006-01-02"),
		TotalAmount: decimal.Zero,
		CashAmount:  decimal.Zero,
		UPIAmount:   decimal.Zero,
		BankAmount:  decimal.Zero,
	}

	query := `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE mode = 'cash'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE mode = 'upi'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE mode = 'bank_transfer'), 0),
		       COUNT(*)
		FROM collection.payments
		WHERE paid_on = $1`
	err := r.db.QueryRow(query, day).
		Scan(&summary.TotalAmount, &summary.CashAmount, &summary.UPIAmount, &summary.BankAmount, &summary.PaymentCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily collections: %w", err)
	}

	byCollector := `
		SELECT p.collector_id, u.username, COALESCE(SUM(p.amount), 0), COUNT(*)
		FROM collection.payments p
		JOIN collection.users u ON u.id = p.collector_id
		WHERE p.paid_on = $1
		GROUP BY p.collector_id, u.username
		ORDER BY u.username`
	rows, err := r.db.Query(byCollector, day)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate collector collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CollectorCollection
		if err := rows.Scan(&c.CollectorID, &c.CollectorName, &c.Amount, &c.PaymentCount); err != nil {
			return nil, fmt.Errorf("failed to scan collector collection: %w", err)
		}
		summary.ByCollector = append(summary.ByCollector, c)
	}
	return summary, rows.Err()
}

// OverdueAging lists overdue tokens with days overdue, outstanding
// amount and accrued penalty as of the given date
func (r *Repository) OverdueAging(asOf time.Time) ([]models.OverdueAgingRow, error) {
	query := `
		SELECT t.id, t.customer_id, c.name,
		       ($1::date - MIN(e.due_date)::date),
		       COALESCE(SUM(e.installment + e.penalty - e.penalty_waived - e.paid), 0),
		       COALESCE(SUM(e.penalty), 0)
		FROM collection.tokens t
		JOIN collection.customers c ON c.id = t.customer_id
		JOIN collection.schedule_entries e ON e.token_id = t.id
		WHERE e.status = 'overdue'
		GROUP BY t.id, t.customer_id, c.name
		ORDER BY MIN(e.due_date)`
	rows, err := r.db.Query(query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue aging: %w", err)
	}
	defer rows.Close()

	var aging []models.OverdueAgingRow
	for rows.Next() {
		var row models.OverdueAgingRow
		if err := rows.Scan(&row.TokenID, &row.CustomerID, &row.CustomerName,
			&row.DaysOverdue, &row.Outstanding, &row.PenaltyAccrued); err != nil {
			return nil, fmt.Errorf("failed to scan overdue aging row: %w", err)
		}
		aging = append(aging, row)
	}
	return aging, rows.Err()
}
