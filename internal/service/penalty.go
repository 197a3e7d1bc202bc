package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/loan"
	"github.com/microfin/collection-service/internal/models"
)

// CreatePenaltyConfig creates a new, inactive penalty rule
func (s *Service) CreatePenaltyConfig(cfg *models.PenaltyConfig) (*models.PenaltyConfig, error) {
	if cfg.Type != models.PenaltyFixed && cfg.Type != models.PenaltyPercent {
		return nil, fmt.Errorf("invalid penalty type %q", cfg.Type)
	}
	if cfg.Value.IsNegative() {
		return nil, fmt.Errorf("penalty value must not be negative, got %s", cfg.Value)
	}
	if cfg.GraceDays < 0 {
		return nil, fmt.Errorf("grace days must not be negative, got %d", cfg.GraceDays)
	}

	if err := s.repo.CreatePenaltyConfig(cfg); err != nil {
		return nil, err
	}
	s.log.Infof("Penalty config %d created: %s %s, %d grace days", cfg.ID, cfg.Type, cfg.Value, cfg.GraceDays)
	return cfg, nil
}

// ActivatePenaltyConfig makes one rule active, deactivating all others
func (s *Service) ActivatePenaltyConfig(ctx context.Context, id int64) error {
	if err := s.repo.ActivatePenaltyConfig(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Penalty config %d activated", id)
	return nil
}

// GetActivePenaltyConfig retrieves the active rule, if any
func (s *Service) GetActivePenaltyConfig() (*models.PenaltyConfig, error) {
	return s.repo.GetActivePenaltyConfig()
}

// ListPenaltyConfigs retrieves all configured rules
func (s *Service) ListPenaltyConfigs() ([]models.PenaltyConfig, error) {
	return s.repo.ListPenaltyConfigs()
}

// RunPenaltySweep applies the active penalty rule to every unpaid entry
// whose grace window has lapsed as of the given date. Without an active
// configuration the sweep is a no-op. Loans are independent; each
// entry's update is written individually and the sweep is idempotent
// for a given date and configuration.
func (s *Service) RunPenaltySweep(ctx context.Context, asOf time.Time) (int, error) {
	cfg, err := s.repo.GetActivePenaltyConfig()
	if errors.Is(err, loan.ErrNoActiveConfig) {
		s.log.Info("Penalty sweep skipped: no active configuration")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	candidates, err := s.repo.ListSweepCandidates(asOf, cfg.GraceDays)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, e := range candidates {
		updated := loan.ApplyPenalty(e, *cfg, asOf)
		if updated.Penalty.Equal(e.Penalty) && updated.Status == e.Status {
			continue
		}
		err := s.repo.Tx(ctx, func(tx *sql.Tx) error {
			if err := s.repo.UpdateScheduleEntry(tx, &updated); err != nil {
				return err
			}
			if updated.Status == models.EntryOverdue {
				return s.markTokenOverdue(tx, updated.TokenID)
			}
			return nil
		})
		if err != nil {
			s.log.Errorf("Penalty sweep: entry %d failed: %v", e.ID, err)
			continue
		}
		applied++
	}

	s.log.Infof("Penalty sweep complete: %d entries penalized as of %s", applied, asOf.Format("2006-01-02"))
	return applied, nil
}

func (s *Service) markTokenOverdue(tx *sql.Tx, tokenID int64) error {
	tok, err := s.repo.FindTokenByID(tokenID)
	if err != nil {
		return err
	}
	if tok.Status != models.TokenActive {
		return nil
	}
	return s.repo.UpdateTokenStatus(tx, tokenID, models.TokenOverdue)
}

// WaivePenalty sets the waived portion of an entry's accrued penalty.
// The accrual record is kept; only the net due changes.
func (s *Service) WaivePenalty(ctx context.Context, entryID int64, amount decimal.Decimal) (*models.ScheduleEntry, error) {
	e, err := s.repo.FindScheduleEntryByID(entryID)
	if err != nil {
		return nil, err
	}

	updated := loan.WaivePenalty(*e, amount)
	// A waiver can bring an already-tendered amount up to full cover.
	if updated.Status != models.EntryPaid && updated.Paid.GreaterThanOrEqual(loan.TotalDue(updated)) && updated.Paid.IsPositive() {
		updated.Status = models.EntryPaid
	}

	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		return s.repo.UpdateScheduleEntry(tx, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Penalty waived on entry %d: %s of %s", entryID, updated.PenaltyWaived, updated.Penalty)
	return &updated, nil
}

// OverridePenalty manually replaces an entry's accrued penalty,
// bypassing the configured rule. Overridden entries are skipped by
// subsequent sweeps.
func (s *Service) OverridePenalty(ctx context.Context, entryID int64, amount decimal.Decimal) (*models.ScheduleEntry, error) {
	e, err := s.repo.FindScheduleEntryByID(entryID)
	if err != nil {
		return nil, err
	}

	updated := loan.OverridePenalty(*e, amount)
	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		return s.repo.UpdateScheduleEntry(tx, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Penalty overridden on entry %d: %s", entryID, amount)
	return &updated, nil
}

// ListOverdueEntries retrieves the entries currently carrying penalties
// past the active grace window, for the overdue-management screen
func (s *Service) ListOverdueEntries(asOf time.Time) ([]models.ScheduleEntry, error) {
	cfg, err := s.repo.GetActivePenaltyConfig()
	if errors.Is(err, loan.ErrNoActiveConfig) {
		return nil, loan.ErrNoActiveConfig
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListSweepCandidates(asOf, cfg.GraceDays)
}
