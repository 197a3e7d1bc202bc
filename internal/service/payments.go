package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/ledger"
	"github.com/microfin/collection-service/internal/loan"
	"github.com/microfin/collection-service/internal/models"
	"github.com/microfin/collection-service/internal/utils"
)

// RecordPaymentInput carries a tendered payment against one token or a
// whole batch
type RecordPaymentInput struct {
	TokenID *int64             `json:"token_id,omitempty"`
	BatchID *int64             `json:"batch_id,omitempty"`
	Amount  decimal.Decimal    `json:"amount"`
	Mode    models.PaymentMode `json:"mode"`
	PaidOn  time.Time          `json:"paid_on"`
}

// PaymentResult reports how a tendered amount was applied
type PaymentResult struct {
	Payment      models.Payment  `json:"payment"`
	Applied      decimal.Decimal `json:"applied"`
	Excess       decimal.Decimal `json:"excess"`
	ClosedTokens []int64         `json:"closed_tokens,omitempty"`
}

// RecordPayment applies a tendered amount oldest-due-first across the
// target token's (or batch's) schedule entries, inside one transaction
// that locks the affected entries so concurrent payments against the
// same loan serialize. The collector's cash ledger is credited with the
// full tendered amount in the same transaction; any amount beyond the
// loan's outstanding is reported back as excess.
func (s *Service) RecordPayment(ctx context.Context, in RecordPaymentInput) (*PaymentResult, error) {
	collectorID, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	if !models.ValidMode(in.Mode) {
		return nil, fmt.Errorf("invalid payment mode %q", in.Mode)
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %s", loan.ErrInvalidInput, in.Amount)
	}
	if (in.TokenID == nil) == (in.BatchID == nil) {
		return nil, fmt.Errorf("exactly one of token_id or batch_id must be set")
	}

	var tokenIDs []int64
	if in.TokenID != nil {
		tok, err := s.repo.FindTokenByID(*in.TokenID)
		if err != nil {
			return nil, err
		}
		if tok.Status == models.TokenCancelled || tok.Status == models.TokenClosed {
			return nil, fmt.Errorf("token %d is %s", tok.ID, tok.Status)
		}
		tokenIDs = []int64{tok.ID}
	} else {
		tokens, err := s.repo.ListBatchTokens(*in.BatchID)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("batch not found")
		}
		for _, t := range tokens {
			if t.Status == models.TokenActive || t.Status == models.TokenOverdue {
				tokenIDs = append(tokenIDs, t.ID)
			}
		}
		if len(tokenIDs) == 0 {
			return nil, fmt.Errorf("batch %d has no open tokens", *in.BatchID)
		}
	}

	receiptNo, err := utils.GenerateReceiptNumber("RCP", 12)
	if err != nil {
		return nil, err
	}
	payment := models.Payment{
		Reference:   uuid.NewString(),
		ReceiptNo:   receiptNo,
		TokenID:     in.TokenID,
		BatchID:     in.BatchID,
		CollectorID: collectorID,
		Amount:      in.Amount,
		Mode:        in.Mode,
		PaidOn:      in.PaidOn,
	}
	payment.HMAC = utils.PaymentHMAC(payment.Reference, payment.ReceiptNo, in.Amount.StringFixed(2), in.PaidOn, s.config.HMACSecret)

	result := &PaymentResult{}
	err = s.repo.Tx(ctx, func(tx *sql.Tx) error {
		entries, err := s.repo.LockScheduleEntries(tx, tokenIDs)
		if err != nil {
			return err
		}

		before := make(map[int64]models.ScheduleEntry, len(entries))
		for _, e := range entries {
			before[e.ID] = e
		}

		updated, excess, err := loan.AllocatePayment(entries, in.Amount, in.PaidOn)
		if err != nil {
			return err
		}

		perToken := make(map[int64][]models.ScheduleEntry)
		for _, e := range updated {
			prev := before[e.ID]
			if !e.Paid.Equal(prev.Paid) || e.Status != prev.Status {
				entry := e
				if err := s.repo.UpdateScheduleEntry(tx, &entry); err != nil {
					return err
				}
			}
			perToken[e.TokenID] = append(perToken[e.TokenID], e)
		}

		// Close any token whose schedule is now fully paid.
		for tokenID, tokEntries := range perToken {
			if loan.FullyPaid(tokEntries) {
				if err := s.repo.UpdateTokenStatus(tx, tokenID, models.TokenClosed); err != nil {
					return err
				}
				result.ClosedTokens = append(result.ClosedTokens, tokenID)
			}
		}

		if err := s.repo.CreatePayment(tx, &payment); err != nil {
			return err
		}

		// Credit the collector's cash account with the full tendered
		// amount; the cash is in their hands regardless of allocation.
		balance, err := s.repo.LastBalance(tx, collectorID)
		if err != nil {
			return err
		}
		note := fmt.Sprintf("collection receipt %s", payment.ReceiptNo)
		txn, err := ledger.NewTransaction(collectorID, models.TxnCredit, in.Amount, balance, note, collectorID, false)
		if err != nil {
			return err
		}
		if err := s.repo.AppendLedger(tx, &txn); err != nil {
			return err
		}

		result.Payment = payment
		result.Applied = in.Amount.Sub(excess)
		result.Excess = excess
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Excess.IsPositive() {
		s.log.Warnf("Payment %s: %s tendered exceeds outstanding, %s unallocated",
			payment.Reference, in.Amount, result.Excess)
	}
	s.log.Infof("Payment %s recorded: %s by collector %d, %s applied",
		payment.Reference, in.Amount, collectorID, result.Applied)
	return result, nil
}

// ListPayments retrieves payments, optionally filtered by collector and day
func (s *Service) ListPayments(collectorID int64, day *time.Time) ([]models.Payment, error) {
	return s.repo.ListPayments(collectorID, day)
}

// VerifyPayment checks a stored payment's tamper-evidence stamp
func (s *Service) VerifyPayment(id int64) (*models.Payment, bool, error) {
	p, err := s.repo.FindPaymentByID(id)
	if err != nil {
		return nil, false, err
	}
	ok := utils.VerifyPaymentHMAC(p.HMAC, p.Reference, p.ReceiptNo, p.Amount.StringFixed(2), p.PaidOn, s.config.HMACSecret)
	return p, ok, nil
}
