package loan

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

// GenerateSchedule expands a token into its repayment schedule: one
// entry per calendar day from the start date inclusive, all pending.
// The final entry absorbs the rounding remainder so the installments
// sum to the total payable exactly. The expansion is pure and
// idempotent: re-running it for the same token yields an identical
// sequence.
func GenerateSchedule(tok models.Token) ([]models.ScheduleEntry, error) {
	if tok.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d days", ErrInvalidInput, tok.DurationDays)
	}
	if tok.TotalPayable.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total payable must be positive, got %s", ErrInvalidInput, tok.TotalPayable)
	}
	if tok.DailyInstallment.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: daily installment must be positive, got %s", ErrInvalidInput, tok.DailyInstallment)
	}

	entries := make([]models.ScheduleEntry, 0, tok.DurationDays)
	for i := 1; i <= tok.DurationDays; i++ {
		installment := tok.DailyInstallment
		if i == tok.DurationDays {
			// Close the schedule exactly against the total payable.
			paidBefore := tok.DailyInstallment.Mul(decimal.NewFromInt(int64(tok.DurationDays - 1)))
			installment = tok.TotalPayable.Sub(paidBefore)
		}
		entries = append(entries, models.ScheduleEntry{
			TokenID:       tok.ID,
			Seq:           i,
			DueDate:       tok.StartDate.AddDate(0, 0, i-1),
			Installment:   installment,
			Penalty:       decimal.Zero,
			PenaltyWaived: decimal.Zero,
			Paid:          decimal.Zero,
			Status:        models.EntryPending,
		})
	}
	return entries, nil
}
