package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/microfin/collection-service/internal/models"
)

const tokenColumns = `id, customer_id, batch_id, principal, interest_type, interest_value,
	total_payable, duration_days, daily_installment, start_date, end_date, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanTokenRow(row rowScanner) (*models.Token, error) {
	t := &models.Token{}
	var batchID sql.NullInt64
	err := row.Scan(&t.ID, &t.CustomerID, &batchID, &t.Principal, &t.Interest.Type, &t.Interest.Value,
		&t.TotalPayable, &t.DurationDays, &t.DailyInstallment, &t.StartDate, &t.EndDate, &t.Status,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if batchID.Valid {
		id := batchID.Int64
		t.BatchID = &id
	}
	return t, nil
}

// CreateToken inserts a token inside tx
func (r *Repository) CreateToken(tx *sql.Tx, t *models.Token) error {
	query := `
		INSERT INTO collection.tokens
			(customer_id, batch_id, principal, interest_type, interest_value, total_payable,
			 duration_days, daily_installment, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	var batchID sql.NullInt64
	if t.BatchID != nil {
		batchID = sql.NullInt64{Int64: *t.BatchID, Valid: true}
	}
	err := tx.QueryRow(query,
		t.CustomerID, batchID, t.Principal, t.Interest.Type, t.Interest.Value, t.TotalPayable,
		t.DurationDays, t.DailyInstallment, t.StartDate, t.EndDate, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

// CreateBatch inserts a batch inside tx
func (r *Repository) CreateBatch(tx *sql.Tx, b *models.Batch) error {
	query := `
		INSERT INTO collection.batches
			(customer_id, quantity, token_amount, total_payable, daily_collection, duration_days, start_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := tx.QueryRow(query,
		b.CustomerID, b.Quantity, b.TokenAmount, b.TotalPayable, b.DailyCollection, b.DurationDays, b.StartDate).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

// CreateScheduleEntries inserts a token's full schedule inside tx
func (r *Repository) CreateScheduleEntries(tx *sql.Tx, entries []models.ScheduleEntry) error {
	query := `
		INSERT INTO collection.schedule_entries
			(token_id, seq, due_date, installment, penalty, penalty_waived, penalty_overridden, paid, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	for i := range entries {
		e := &entries[i]
		err := tx.QueryRow(query,
			e.TokenID, e.Seq, e.DueDate, e.Installment, e.Penalty, e.PenaltyWaived,
			e.PenaltyOverridden, e.Paid, e.Status).
			Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create schedule entry %d: %w", e.Seq, err)
		}
	}
	return nil
}

// FindTokenByID retrieves a token by id
func (r *Repository) FindTokenByID(id int64) (*models.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM collection.tokens
		WHERE id = $1`
	t, err := r.scanTokenRow(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("token not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return t, nil
}

// ListTokens retrieves tokens, optionally filtered by status and customer
func (r *Repository) ListTokens(status models.TokenStatus, customerID int64) ([]models.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM collection.tokens
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = 0 OR customer_id = $2)
		ORDER BY id DESC`
	rows, err := r.db.Query(query, string(status), customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []models.Token
	for rows.Next() {
		t, err := r.scanTokenRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}

// ListBatchTokens retrieves all tokens belonging to a batch
func (r *Repository) ListBatchTokens(batchID int64) ([]models.Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM collection.tokens
		WHERE batch_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch tokens: %w", err)
	}
	defer rows.Close()

	var tokens []models.Token
	for rows.Next() {
		t, err := r.scanTokenRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}

// FindBatchByID retrieves a batch by id
func (r *Repository) FindBatchByID(id int64) (*models.Batch, error) {
	b := &models.Batch{}
	query := `
		SELECT id, customer_id, quantity, token_amount, total_payable, daily_collection, duration_days, start_date, created_at
		FROM collection.batches
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&b.ID, &b.CustomerID, &b.Quantity, &b.TokenAmount, &b.TotalPayable, &b.DailyCollection, &b.DurationDays, &b.StartDate, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return b, nil
}

// UpdateTokenStatus transitions a token's status inside tx
func (r *Repository) UpdateTokenStatus(tx *sql.Tx, tokenID int64, status models.TokenStatus) error {
	query := `
		UPDATE collection.tokens
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`
	res, err := tx.Exec(query, status, tokenID)
	if err != nil {
		return fmt.Errorf("failed to update token status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update token status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("token not found")
	}
	return nil
}

// ListScheduleEntries retrieves a token's schedule ordered by due date
func (r *Repository) ListScheduleEntries(tokenID int64) ([]models.ScheduleEntry, error) {
	query := `
		SELECT id, token_id, seq, due_date, installment, penalty, penalty_waived, penalty_overridden,
		       paid, status, paid_on, created_at, updated_at
		FROM collection.schedule_entries
		WHERE token_id = $1
		ORDER BY due_date, seq`
	rows, err := r.db.Query(query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// LockScheduleEntries selects a set of tokens' unpaid schedule entries
// FOR UPDATE inside tx, serializing concurrent payments per loan
func (r *Repository) LockScheduleEntries(tx *sql.Tx, tokenIDs []int64) ([]models.ScheduleEntry, error) {
	query := `
		SELECT id, token_id, seq, due_date, installment, penalty, penalty_waived, penalty_overridden,
		       paid, status, paid_on, created_at, updated_at
		FROM collection.schedule_entries
		WHERE token_id = ANY($1)
		ORDER BY due_date, token_id, seq
		FOR UPDATE`
	rows, err := tx.Query(query, pq.Array(tokenIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// UpdateScheduleEntry writes back an entry's mutable fields inside tx
func (r *Repository) UpdateScheduleEntry(tx *sql.Tx, e *models.ScheduleEntry) error {
	query := `
		UPDATE collection.schedule_entries
		SET penalty = $1, penalty_waived = $2, penalty_overridden = $3, paid = $4,
		    status = $5, paid_on = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING updated_at`
	var paidOn sql.NullTime
	if e.PaidOn != nil {
		paidOn = sql.NullTime{Time: *e.PaidOn, Valid: true}
	}
	err := tx.QueryRow(query, e.Penalty, e.PenaltyWaived, e.PenaltyOverridden, e.Paid, e.Status, paidOn, e.ID).
		Scan(&e.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("schedule entry not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update schedule entry: %w", err)
	}
	return nil
}

// FindScheduleEntryByID retrieves one schedule entry
func (r *Repository) FindScheduleEntryByID(id int64) (*models.ScheduleEntry, error) {
	query := `
		SELECT id, token_id, seq, due_date, installment, penalty, penalty_waived, penalty_overridden,
		       paid, status, paid_on, created_at, updated_at
		FROM collection.schedule_entries
		WHERE id = $1`
	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule entry: %w", err)
	}
	defer rows.Close()
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("schedule entry not found")
	}
	return &entries[0], nil
}

// ListDueEntries retrieves unpaid entries due on a given date across
// all active tokens, for the collector dashboard and the reminder job
func (r *Repository) ListDueEntries(due time.Time) ([]models.ScheduleEntry, error) {
	query := `
		SELECT e.id, e.token_id, e.seq, e.due_date, e.installment, e.penalty, e.penalty_waived, e.penalty_overridden,
		       e.paid, e.status, e.paid_on, e.created_at, e.updated_at
		FROM collection.schedule_entries e
		JOIN collection.tokens t ON t.id = e.token_id
		WHERE e.due_date = $1
		  AND e.status <> 'paid'
		  AND t.status IN ('active', 'overdue')
		ORDER BY e.token_id, e.seq`
	rows, err := r.db.Query(query, due)
	if err != nil {
		return nil, fmt.Errorf("failed to list due entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		var paidOn sql.NullTime
		if err := rows.Scan(&e.ID, &e.TokenID, &e.Seq, &e.DueDate, &e.Installment, &e.Penalty,
			&e.PenaltyWaived, &e.PenaltyOverridden, &e.Paid, &e.Status, &paidOn, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		if paidOn.Valid {
			t := paidOn.Time
			e.PaidOn = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
