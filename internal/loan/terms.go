// Package loan implements the schedule engine behind token issuance and
// collection: term computation, schedule expansion, penalty accrual and
// payment application. All functions are pure and operate on value
// inputs; persistence and serialization live elsewhere.
package loan

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microfin/collection-service/internal/models"
)

var (
	// ErrInvalidInput rejects malformed calculator arguments before any
	// schedule entry is generated
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveConfig signals a penalty sweep without an active
	// configuration; callers treat it as a no-op, not a failure
	ErrNoActiveConfig = errors.New("no active penalty configuration")
)

var hundred = decimal.NewFromInt(100)

// Terms is the derived repayment terms of a token
type Terms struct {
	TotalPayable     decimal.Decimal
	DailyInstallment decimal.Decimal
	EndDate          time.Time
}

// ComputeTerms derives the total payable, the per-day installment and
// the end date of a token. The daily installment is rounded to two
// places; the final schedule entry absorbs the rounding remainder so
// the entries sum to the total payable exactly (see GenerateSchedule).
func ComputeTerms(principal decimal.Decimal, interest models.InterestSpec, durationDays int, startDate time.Time) (Terms, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return Terms{}, fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidInput, principal)
	}
	if durationDays <= 0 {
		return Terms{}, fmt.Errorf("%w: duration must be positive, got %d days", ErrInvalidInput, durationDays)
	}
	if interest.Value.IsNegative() {
		return Terms{}, fmt.Errorf("%w: interest value must not be negative, got %s", ErrInvalidInput, interest.Value)
	}

	var total decimal.Decimal
	switch interest.Type {
	case models.InterestFixed:
		total = principal.Add(interest.Value)
	case models.InterestPercent:
		total = principal.Add(principal.Mul(interest.Value).Div(hundred))
	default:
		return Terms{}, fmt.Errorf("%w: unknown interest type %q", ErrInvalidInput, interest.Type)
	}

	return Terms{
		TotalPayable:     total,
		DailyInstallment: total.Div(decimal.NewFromInt(int64(durationDays))).Round(2),
		EndDate:          startDate.AddDate(0, 0, durationDays),
	}, nil
}
