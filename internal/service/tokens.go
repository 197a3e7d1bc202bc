package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/loan"
	"github.com/microfin/collection-service/internal/models"
)

// IssueTokenInput carries the parameters of a new token
type IssueTokenInput struct {
	CustomerID   int64               `json:"customer_id"`
	Principal    decimal.Decimal     `json:"principal"`
	Interest     models.InterestSpec `json:"interest"`
	DurationDays int                 `json:"duration_days"`
	StartDate    time.Time           `json:"start_date"`
}

// IssueToken computes the terms of a new token, persists it and
// generates its full repayment schedule in one transaction
func (s *Service) IssueToken(ctx context.Context, in IssueTokenInput) (*models.Token, error) {
	if _, err := s.repo.FindCustomerByID(in.CustomerID); err != nil {
		return nil, err
	}

	terms, err := loan.ComputeTerms(in.Principal, in.Interest, in.DurationDays, in.StartDate)
	if err != nil {
		return nil, err
	}

	tok := &models.Token{
		CustomerID:       in.CustomerID,
		Principal:        in.Principal,
		Interest:         in.Interest,
		TotalPayable:     terms.TotalPayable,
		DurationDays:     in.DurationDays,
		DailyInstallment: terms.DailyInstallment,
		StartDate:        in.StartDate,
		EndDate:          terms.EndDate,
		Status:           models.TokenActive,
	}

	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateToken(tx, tok); err != nil {
			return err
		}
		entries, err := loan.GenerateSchedule(*tok)
		if err != nil {
			return err
		}
		return s.repo.CreateScheduleEntries(tx, entries)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Token %d issued: customer %d, principal %s over %d days",
		tok.ID, tok.CustomerID, tok.Principal, tok.DurationDays)
	return tok, nil
}

// IssueBatchInput carries the parameters of a batch of identical tokens
type IssueBatchInput struct {
	IssueTokenInput
	Quantity int `json:"quantity"`
}

// IssueBatch issues N identical tokens to one customer as a batch,
// collected as a single daily sum. Each token carries its own schedule;
// the batch stores the aggregate daily collection.
func (s *Service) IssueBatch(ctx context.Context, in IssueBatchInput) (*models.Batch, []models.Token, error) {
	if in.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: batch quantity must be positive, got %d", loan.ErrInvalidInput, in.Quantity)
	}
	if _, err := s.repo.FindCustomerByID(in.CustomerID); err != nil {
		return nil, nil, err
	}

	terms, err := loan.ComputeTerms(in.Principal, in.Interest, in.DurationDays, in.StartDate)
	if err != nil {
		return nil, nil, err
	}

	qty := decimal.NewFromInt(int64(in.Quantity))
	batch := &models.Batch{
		CustomerID:      in.CustomerID,
		Quantity:        in.Quantity,
		TokenAmount:     in.Principal,
		TotalPayable:    terms.TotalPayable.Mul(qty),
		DailyCollection: terms.DailyInstallment.Mul(qty),
		DurationDays:    in.DurationDays,
		StartDate:       in.StartDate,
	}

	var tokens []models.Token
	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateBatch(tx, batch); err != nil {
			return err
		}
		for i := 0; i < in.Quantity; i++ {
			batchID := batch.ID
			tok := models.Token{
				CustomerID:       in.CustomerID,
				BatchID:          &batchID,
				Principal:        in.Principal,
				Interest:         in.Interest,
				TotalPayable:     terms.TotalPayable,
				DurationDays:     in.DurationDays,
				DailyInstallment: terms.DailyInstallment,
				StartDate:        in.StartDate,
				EndDate:          terms.EndDate,
				Status:           models.TokenActive,
			}
			if err := s.repo.CreateToken(tx, &tok); err != nil {
				return err
			}
			entries, err := loan.GenerateSchedule(tok)
			if err != nil {
				return err
			}
			if err := s.repo.CreateScheduleEntries(tx, entries); err != nil {
				return err
			}
			tokens = append(tokens, tok)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Infof("Batch %d issued: customer %d, %d tokens of %s, daily collection %s",
		batch.ID, batch.CustomerID, batch.Quantity, batch.TokenAmount, batch.DailyCollection)
	return batch, tokens, nil
}

// BatchDetails is a batch together with its tokens
type BatchDetails struct {
	Batch  models.Batch   `json:"batch"`
	Tokens []models.Token `json:"tokens"`
}

// GetBatchDetails retrieves a batch with all of its tokens
func (s *Service) GetBatchDetails(id int64) (*BatchDetails, error) {
	batch, err := s.repo.FindBatchByID(id)
	if err != nil {
		return nil, err
	}
	tokens, err := s.repo.ListBatchTokens(id)
	if err != nil {
		return nil, err
	}
	return &BatchDetails{Batch: *batch, Tokens: tokens}, nil
}

// TokenDetails is a token together with its schedule and derived totals
type TokenDetails struct {
	Token       models.Token           `json:"token"`
	Schedule    []models.ScheduleEntry `json:"schedule"`
	Outstanding decimal.Decimal        `json:"outstanding"`
	TotalPaid   decimal.Decimal        `json:"total_paid"`
}

// GetTokenDetails retrieves a token with its full schedule
func (s *Service) GetTokenDetails(id int64) (*TokenDetails, error) {
	tok, err := s.repo.FindTokenByID(id)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListScheduleEntries(id)
	if err != nil {
		return nil, err
	}

	details := &TokenDetails{
		Token:       *tok,
		Schedule:    entries,
		Outstanding: decimal.Zero,
		TotalPaid:   decimal.Zero,
	}
	for _, e := range entries {
		details.Outstanding = details.Outstanding.Add(loan.Outstanding(e))
		details.TotalPaid = details.TotalPaid.Add(e.Paid)
	}
	return details, nil
}

// ListTokens retrieves tokens filtered by status and/or customer
func (s *Service) ListTokens(status models.TokenStatus, customerID int64) ([]models.Token, error) {
	return s.repo.ListTokens(status, customerID)
}

// CancelToken manually cancels a token that is not yet closed
func (s *Service) CancelToken(ctx context.Context, id int64) error {
	tok, err := s.repo.FindTokenByID(id)
	if err != nil {
		return err
	}
	if tok.Status == models.TokenClosed || tok.Status == models.TokenCancelled {
		return fmt.Errorf("token %d is already %s", id, tok.Status)
	}

	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		return s.repo.UpdateTokenStatus(tx, id, models.TokenCancelled)
	})
	if err != nil {
		return err
	}
	s.log.Infof("Token %d cancelled", id)
	return nil
}

// CloseToken closes a token; only fully paid tokens can be closed
func (s *Service) CloseToken(ctx context.Context, id int64) error {
	entries, err := s.repo.ListScheduleEntries(id)
	if err != nil {
		return err
	}
	if !loan.FullyPaid(entries) {
		return fmt.Errorf("token %d is not fully paid", id)
	}

	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		return s.repo.UpdateTokenStatus(tx, id, models.TokenClosed)
	})
	if err != nil {
		return err
	}
	s.log.Infof("Token %d closed", id)
	return nil
}
