package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/collection-service/internal/models"
)

var start = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestComputeTerms_FixedInterest(t *testing.T) {
	// 10,000 principal + 1,000 flat interest over 30 days
	terms, err := ComputeTerms(
		decimal.NewFromInt(10_000),
		models.InterestSpec{Type: models.InterestFixed, Value: decimal.NewFromInt(1_000)},
		30, start,
	)
	require.NoError(t, err)

	assert.True(t, terms.TotalPayable.Equal(decimal.NewFromInt(11_000)),
		"total payable should be 11000, got %s", terms.TotalPayable)
	assert.True(t, terms.DailyInstallment.Equal(decimal.NewFromFloat(366.67)),
		"daily installment should be 366.67, got %s", terms.DailyInstallment)
	assert.Equal(t, start.AddDate(0, 0, 30), terms.EndDate)
}

func TestComputeTerms_PercentageInterest(t *testing.T) {
	// 15,000 principal at 10% over 45 days
	terms, err := ComputeTerms(
		decimal.NewFromInt(15_000),
		models.InterestSpec{Type: models.InterestPercent, Value: decimal.NewFromInt(10)},
		45, start,
	)
	require.NoError(t, err)

	assert.True(t, terms.TotalPayable.Equal(decimal.NewFromInt(16_500)),
		"total payable should be exactly 16500, got %s", terms.TotalPayable)
	assert.True(t, terms.DailyInstallment.Equal(decimal.NewFromFloat(366.67)),
		"daily installment should be 366.67, got %s", terms.DailyInstallment)
}

func TestComputeTerms_ZeroInterest(t *testing.T) {
	terms, err := ComputeTerms(
		decimal.NewFromInt(9_000),
		models.InterestSpec{Type: models.InterestFixed, Value: decimal.Zero},
		30, start,
	)
	require.NoError(t, err)
	assert.True(t, terms.TotalPayable.Equal(decimal.NewFromInt(9_000)))
	assert.True(t, terms.DailyInstallment.Equal(decimal.NewFromInt(300)))
}

func TestComputeTerms_InstallmentCoversTotal(t *testing.T) {
	// Per-day rounding drift stays within one cent per day; the final
	// schedule entry closes the gap exactly (see GenerateSchedule).
	cases := []struct {
		principal int64
		interest  int64
		days      int
	}{
		{10_000, 1_000, 30},
		{2_000, 200, 30},
		{15_000, 0, 45},
		{7_777, 123, 61},
	}
	for _, c := range cases {
		terms, err := ComputeTerms(
			decimal.NewFromInt(c.principal),
			models.InterestSpec{Type: models.InterestFixed, Value: decimal.NewFromInt(c.interest)},
			c.days, start,
		)
		require.NoError(t, err)

		drift := terms.DailyInstallment.Mul(decimal.NewFromInt(int64(c.days))).Sub(terms.TotalPayable).Abs()
		limit := decimal.NewFromFloat(0.005).Mul(decimal.NewFromInt(int64(c.days)))
		assert.True(t, drift.LessThanOrEqual(limit),
			"P=%d D=%d: drift %s exceeds %s", c.principal, c.days, drift, limit)
	}
}

func TestComputeTerms_InvalidInput(t *testing.T) {
	fixed := models.InterestSpec{Type: models.InterestFixed, Value: decimal.NewFromInt(100)}

	_, err := ComputeTerms(decimal.Zero, fixed, 30, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "zero principal")

	_, err = ComputeTerms(decimal.NewFromInt(-500), fixed, 30, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "negative principal")

	_, err = ComputeTerms(decimal.NewFromInt(1_000), fixed, 0, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "zero duration")

	_, err = ComputeTerms(decimal.NewFromInt(1_000),
		models.InterestSpec{Type: models.InterestFixed, Value: decimal.NewFromInt(-1)}, 30, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "negative interest")

	_, err = ComputeTerms(decimal.NewFromInt(1_000),
		models.InterestSpec{Type: "compound", Value: decimal.NewFromInt(5)}, 30, start)
	assert.ErrorIs(t, err, ErrInvalidInput, "unknown interest type")
}
