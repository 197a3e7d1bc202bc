package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

// TotalDue is the net amount owed on an entry: installment plus accrued
// penalty minus any waiver
func TotalDue(e models.ScheduleEntry) decimal.Decimal {
	return e.Installment.Add(e.Penalty).Sub(e.PenaltyWaived)
}

// Outstanding is what remains to be paid on an entry
func Outstanding(e models.ScheduleEntry) decimal.Decimal {
	out := TotalDue(e).Sub(e.Paid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// ApplyPenalty applies the active penalty rule to a schedule entry as
// of the given date. Entries inside the grace window, already paid, or
// carrying a manual override are returned unchanged. Unpaid entries
// past the grace window accrue the configured penalty and transition
// to overdue.
func ApplyPenalty(e models.ScheduleEntry, cfg models.PenaltyConfig, asOf time.Time) models.ScheduleEntry {
	if e.Status == models.EntryPaid {
		return e
	}
	if e.PenaltyOverridden {
		return e
	}
	graceEnd := e.DueDate.AddDate(0, 0, cfg.GraceDays)
	if !asOf.After(graceEnd) {
		return e
	}

	switch cfg.Type {
	case models.PenaltyFixed:
		e.Penalty = cfg.Value
	case models.PenaltyPercent:
		e.Penalty = e.Installment.Mul(cfg.Value).Div(hundred).Round(2)
	default:
		return e
	}
	// A waiver never exceeds the accrual it reduces.
	if e.PenaltyWaived.GreaterThan(e.Penalty) {
		e.PenaltyWaived = e.Penalty
	}
	e.Status = models.EntryOverdue
	if e.Paid.GreaterThanOrEqual(TotalDue(e)) {
		e.Status = models.EntryPaid
	}
	return e
}

// WaivePenalty sets the waived portion of an entry's penalty, clamped
// to [0, penalty]. The accrual itself is untouched; only the net due
// changes. Waiving is a set, not an increment: a second waiver replaces
// the first.
func WaivePenalty(e models.ScheduleEntry, amount decimal.Decimal) models.ScheduleEntry {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(e.Penalty) {
		amount = e.Penalty
	}
	e.PenaltyWaived = amount
	return e
}

// OverridePenalty replaces an entry's accrued penalty with a manually
// chosen amount. Overridden entries are skipped by subsequent
// ApplyPenalty sweeps so the manual adjustment is not recomputed away.
func OverridePenalty(e models.ScheduleEntry, amount decimal.Decimal) models.ScheduleEntry {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	e.Penalty = amount
	e.PenaltyOverridden = true
	if e.PenaltyWaived.GreaterThan(e.Penalty) {
		e.PenaltyWaived = e.Penalty
	}
	if e.Status != models.EntryPaid && e.Penalty.IsPositive() {
		e.Status = models.EntryOverdue
	}
	return e
}

// BatchPenalty aggregates a per-token penalty across a batch
func BatchPenalty(perToken decimal.Decimal, quantity int) decimal.Decimal {
	return perToken.Mul(decimal.NewFromInt(int64(quantity)))
}
