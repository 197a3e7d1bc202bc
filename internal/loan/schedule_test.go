package loan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/collection-service/internal/models"
)

func testToken(principal, interest int64, days int) models.Token {
	terms, err := ComputeTerms(
		decimal.NewFromInt(principal),
		models.InterestSpec{Type: models.InterestFixed, Value: decimal.NewFromInt(interest)},
		days, start,
	)
	if err != nil {
		panic(err)
	}
	return models.Token{
		ID:               7,
		CustomerID:       1,
		Principal:        decimal.NewFromInt(principal),
		Interest:         models.InterestSpec{Type: models.InterestFixed, Value: decimal.NewFromInt(interest)},
		TotalPayable:     terms.TotalPayable,
		DurationDays:     days,
		DailyInstallment: terms.DailyInstallment,
		StartDate:        start,
		EndDate:          terms.EndDate,
		Status:           models.TokenActive,
	}
}

func TestGenerateSchedule_ShapeAndDates(t *testing.T) {
	tok := testToken(10_000, 1_000, 30)

	entries, err := GenerateSchedule(tok)
	require.NoError(t, err)
	require.Len(t, entries, 30)

	for i, e := range entries {
		assert.Equal(t, tok.ID, e.TokenID)
		assert.Equal(t, i+1, e.Seq)
		assert.Equal(t, start.AddDate(0, 0, i), e.DueDate)
		assert.Equal(t, models.EntryPending, e.Status)
		assert.True(t, e.Penalty.IsZero())
		assert.True(t, e.Paid.IsZero())
		if i > 0 {
			assert.Equal(t, entries[i-1].DueDate.AddDate(0, 0, 1), e.DueDate,
				"due dates must be consecutive calendar days")
		}
	}
}

func TestGenerateSchedule_SumsToTotalPayable(t *testing.T) {
	for _, days := range []int{7, 30, 45, 100} {
		tok := testToken(10_000, 1_000, days)
		entries, err := GenerateSchedule(tok)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.Installment)
		}
		assert.True(t, sum.Equal(tok.TotalPayable),
			"D=%d: installments sum to %s, want %s", days, sum, tok.TotalPayable)
	}
}

func TestGenerateSchedule_FinalEntryAbsorbsRemainder(t *testing.T) {
	tok := testToken(10_000, 1_000, 30) // 11000 / 30 = 366.67 rounded

	entries, err := GenerateSchedule(tok)
	require.NoError(t, err)

	for _, e := range entries[:len(entries)-1] {
		assert.True(t, e.Installment.Equal(decimal.NewFromFloat(366.67)))
	}
	// 11000 - 29 * 366.67 = 366.57
	last := entries[len(entries)-1]
	assert.True(t, last.Installment.Equal(decimal.NewFromFloat(366.57)),
		"final installment should absorb the remainder, got %s", last.Installment)
	assert.True(t, last.Installment.IsPositive())
}

func TestGenerateSchedule_Idempotent(t *testing.T) {
	tok := testToken(15_000, 1_500, 45)

	first, err := GenerateSchedule(tok)
	require.NoError(t, err)
	second, err := GenerateSchedule(tok)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Seq, second[i].Seq)
		assert.True(t, first[i].DueDate.Equal(second[i].DueDate))
		assert.True(t, first[i].Installment.Equal(second[i].Installment))
		assert.Equal(t, first[i].Status, second[i].Status)
	}
}

func TestGenerateSchedule_InvalidToken(t *testing.T) {
	tok := testToken(10_000, 1_000, 30)

	bad := tok
	bad.DurationDays = 0
	_, err := GenerateSchedule(bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = tok
	bad.TotalPayable = decimal.Zero
	_, err = GenerateSchedule(bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = tok
	bad.DailyInstallment = decimal.Zero
	_, err = GenerateSchedule(bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
