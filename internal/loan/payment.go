package loan

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

// ApplyPayment applies a tendered amount to a single schedule entry.
// The applied amount is clamped to the entry's outstanding balance and
// any excess is returned to the caller rather than inflating the paid
// amount. The entry transitions to paid when fully covered, partial
// otherwise.
func ApplyPayment(e models.ScheduleEntry, amount decimal.Decimal, paidOn time.Time) (models.ScheduleEntry, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return e, decimal.Zero, fmt.Errorf("%w: payment amount must be positive, got %s", ErrInvalidInput, amount)
	}

	outstanding := Outstanding(e)
	applied := amount
	if applied.GreaterThan(outstanding) {
		applied = outstanding
	}
	excess := amount.Sub(applied)

	e.Paid = e.Paid.Add(applied)
	if e.Paid.GreaterThanOrEqual(TotalDue(e)) {
		e.Status = models.EntryPaid
		t := paidOn
		e.PaidOn = &t
	} else if e.Paid.IsPositive() {
		e.Status = models.EntryPartial
	}
	return e, excess, nil
}

// AllocatePayment distributes a tendered amount across a token's or
// batch's schedule entries oldest-due-first. Already-paid entries are
// skipped; within one due date entries are taken in sequence order so
// batch allocation is deterministic. Returns the updated entries in
// allocation order together with whatever could not be applied.
func AllocatePayment(entries []models.ScheduleEntry, amount decimal.Decimal, paidOn time.Time) ([]models.ScheduleEntry, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, fmt.Errorf("%w: payment amount must be positive, got %s", ErrInvalidInput, amount)
	}

	updated := make([]models.ScheduleEntry, len(entries))
	copy(updated, entries)
	sort.SliceStable(updated, func(i, j int) bool {
		if !updated[i].DueDate.Equal(updated[j].DueDate) {
			return updated[i].DueDate.Before(updated[j].DueDate)
		}
		if updated[i].TokenID != updated[j].TokenID {
			return updated[i].TokenID < updated[j].TokenID
		}
		return updated[i].Seq < updated[j].Seq
	})

	remaining := amount
	for i := range updated {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if updated[i].Status == models.EntryPaid {
			continue
		}
		e, excess, err := ApplyPayment(updated[i], remaining, paidOn)
		if err != nil {
			return nil, decimal.Zero, err
		}
		updated[i] = e
		remaining = excess
	}
	return updated, remaining, nil
}

// SplitBatchAmount divides a batch-level amount into per-token shares,
// equal to two places with the last share absorbing the remainder, so
// one batch collection can be credited back to each token in the batch.
func SplitBatchAmount(total decimal.Decimal, quantity int) ([]decimal.Decimal, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative, got %s", ErrInvalidInput, total)
	}

	share := total.Div(decimal.NewFromInt(int64(quantity))).Round(2)
	shares := make([]decimal.Decimal, quantity)
	for i := 0; i < quantity-1; i++ {
		shares[i] = share
	}
	shares[quantity-1] = total.Sub(share.Mul(decimal.NewFromInt(int64(quantity - 1))))
	return shares, nil
}

// FullyPaid reports whether every entry in a schedule is paid
func FullyPaid(entries []models.ScheduleEntry) bool {
	for _, e := range entries {
		if e.Status != models.EntryPaid {
			return false
		}
	}
	return len(entries) > 0
}
