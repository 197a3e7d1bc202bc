package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/microfin/collection-service/internal/loan"
	"github.com/microfin/collection-service/internal/models"
)

// CreatePenaltyConfig inserts a new, initially inactive penalty rule
func (r *Repository) CreatePenaltyConfig(c *models.PenaltyConfig) error {
	query := `
		INSERT INTO collection.penalty_configs (type, value, grace_days, active, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, active, created_at, updated_at`
	err := r.db.QueryRow(query, c.Type, c.Value, c.GraceDays).
		Scan(&c.ID, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create penalty config: %w", err)
	}
	return nil
}

// ActivatePenaltyConfig atomically deactivates all penalty configs and
// activates the given one, so at most one rule is ever active.
func (r *Repository) ActivatePenaltyConfig(ctx context.Context, id int64) error {
	return r.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE collection.penalty_configs SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE active`); err != nil {
			return fmt.Errorf("failed to deactivate penalty configs: %w", err)
		}
		res, err := tx.Exec(`UPDATE collection.penalty_configs SET active = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to activate penalty config: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to activate penalty config: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("penalty config not found")
		}
		return nil
	})
}

// GetActivePenaltyConfig retrieves the single active penalty rule.
// Returns loan.ErrNoActiveConfig when none is active.
func (r *Repository) GetActivePenaltyConfig() (*models.PenaltyConfig, error) {
	c := &models.PenaltyConfig{}
	query := `
		SELECT id, type, value, grace_days, active, created_at, updated_at
		FROM collection.penalty_configs
		WHERE active
		LIMIT 1`
	err := r.db.QueryRow(query).
		Scan(&c.ID, &c.Type, &c.Value, &c.GraceDays, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, loan.ErrNoActiveConfig
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active penalty config: %w", err)
	}
	return c, nil
}

// ListPenaltyConfigs retrieves all penalty rules, newest first
func (r *Repository) ListPenaltyConfigs() ([]models.PenaltyConfig, error) {
	query := `
		SELECT id, type, value, grace_days, active, created_at, updated_at
		FROM collection.penalty_configs
		ORDER BY id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalty configs: %w", err)
	}
	defer rows.Close()

	var configs []models.PenaltyConfig
	for rows.Next() {
		var c models.PenaltyConfig
		if err := rows.Scan(&c.ID, &c.Type, &c.Value, &c.GraceDays, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan penalty config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// ListSweepCandidates retrieves unpaid entries whose grace window has
// lapsed as of the given date, across active and overdue tokens
func (r *Repository) ListSweepCandidates(asOf time.Time, graceDays int) ([]models.ScheduleEntry, error) {
	query := `
		SELECT e.id, e.token_id, e.seq, e.due_date, e.installment, e.penalty, e.penalty_waived, e.penalty_overridden,
		       e.paid, e.status, e.paid_on, e.created_at, e.updated_at
		FROM collection.schedule_entries e
		JOIN collection.tokens t ON t.id = e.token_id
		WHERE e.status <> 'paid'
		  AND NOT e.penalty_overridden
		  AND e.due_date + ($2 * INTERVAL '1 day') < $1
		  AND t.status IN ('active', 'overdue')
		ORDER BY e.token_id, e.seq`
	rows, err := r.db.Query(query, asOf, graceDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweep candidates: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}
