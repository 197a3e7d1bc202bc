package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/microfin/collection-service/internal/models"
)

// CreatePayment inserts a payment record inside tx. Payments are an
// append-only ledger: there is no update or delete path.
func (r *Repository) CreatePayment(tx *sql.Tx, p *models.Payment) error {
	query := `
		INSERT INTO collection.payments
			(reference, receipt_no, token_id, batch_id, collector_id, amount, mode, paid_on, hmac, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	var tokenID, batchID sql.NullInt64
	if p.TokenID != nil {
		tokenID = sql.NullInt64{Int64: *p.TokenID, Valid: true}
	}
	if p.BatchID != nil {
		batchID = sql.NullInt64{Int64: *p.BatchID, Valid: true}
	}
	err := tx.QueryRow(query,
		p.Reference, p.ReceiptNo, tokenID, batchID, p.CollectorID, p.Amount, p.Mode, p.PaidOn, p.HMAC).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// FindPaymentByID retrieves a single payment
func (r *Repository) FindPaymentByID(id int64) (*models.Payment, error) {
	query := `
		SELECT id, reference, receipt_no, token_id, batch_id, collector_id, amount, mode, paid_on, hmac, created_at
		FROM collection.payments
		WHERE id = $1`
	var p models.Payment
	var tokenID, batchID sql.NullInt64
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Reference, &p.ReceiptNo, &tokenID, &batchID,
		&p.CollectorID, &p.Amount, &p.Mode, &p.PaidOn, &p.HMAC, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	if tokenID.Valid {
		v := tokenID.Int64
		p.TokenID = &v
	}
	if batchID.Valid {
		v := batchID.Int64
		p.BatchID = &v
	}
	return &p, nil
}

// ListPayments retrieves payments, optionally filtered by collector
// and/or a single day
func (r *Repository) ListPayments(collectorID int64, day *time.Time) ([]models.Payment, error) {
	query := `
		SELECT id, reference, receipt_no, token_id, batch_id, collector_id, amount, mode, paid_on, hmac, created_at
		FROM collection.payments
		WHERE ($1 = 0 OR collector_id = $1)
		  AND ($2::date IS NULL OR paid_on = $2::date)
		ORDER BY id DESC`
	var dayArg sql.NullTime
	if day != nil {
		dayArg = sql.NullTime{Time: *day, Valid: true}
	}
	rows, err := r.db.Query(query, collectorID, dayArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var tokenID, batchID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Reference, &p.ReceiptNo, &tokenID, &batchID, &p.CollectorID,
			&p.Amount, &p.Mode, &p.PaidOn, &p.HMAC, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if tokenID.Valid {
			id := tokenID.Int64
			p.TokenID = &id
		}
		if batchID.Valid {
			id := batchID.Int64
			p.BatchID = &id
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
