package loan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/collection-service/internal/models"
)

func TestApplyPayment_FullAndPartial(t *testing.T) {
	e := pendingEntry(366.67, start)
	paidOn := start.AddDate(0, 0, 1)

	// Partial payment.
	got, excess, err := ApplyPayment(e, decimal.NewFromInt(200), paidOn)
	require.NoError(t, err)
	assert.True(t, excess.IsZero())
	assert.Equal(t, models.EntryPartial, got.Status)
	assert.True(t, got.Paid.Equal(decimal.NewFromInt(200)))
	assert.Nil(t, got.PaidOn)

	// Rest of it.
	got, excess, err = ApplyPayment(got, decimal.NewFromFloat(166.67), paidOn)
	require.NoError(t, err)
	assert.True(t, excess.IsZero())
	assert.Equal(t, models.EntryPaid, got.Status)
	require.NotNil(t, got.PaidOn)
	assert.True(t, got.PaidOn.Equal(paidOn))
}

func TestApplyPayment_OverpaymentClamped(t *testing.T) {
	e := pendingEntry(366.67, start)

	got, excess, err := ApplyPayment(e, decimal.NewFromInt(400), start)
	require.NoError(t, err)
	assert.Equal(t, models.EntryPaid, got.Status)
	assert.True(t, got.Paid.Equal(decimal.NewFromFloat(366.67)),
		"paid must be clamped to total due, got %s", got.Paid)
	assert.True(t, excess.Equal(decimal.NewFromFloat(33.33)),
		"excess should be returned to the caller, got %s", excess)
}

func TestApplyPayment_CoversPenalty(t *testing.T) {
	e := ApplyPenalty(pendingEntry(366.67, start), fixedConfig(10, 0), start.AddDate(0, 0, 2))

	got, excess, err := ApplyPayment(e, decimal.NewFromFloat(376.67), start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.True(t, excess.IsZero())
	assert.Equal(t, models.EntryPaid, got.Status)
}

func TestApplyPayment_InvalidAmount(t *testing.T) {
	e := pendingEntry(366.67, start)
	_, _, err := ApplyPayment(e, decimal.Zero, start)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = ApplyPayment(e, decimal.NewFromInt(-10), start)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAllocatePayment_OldestDueFirst(t *testing.T) {
	entries := []models.ScheduleEntry{
		{TokenID: 7, Seq: 3, DueDate: start.AddDate(0, 0, 2), Installment: decimal.NewFromInt(100), Status: models.EntryPending},
		{TokenID: 7, Seq: 1, DueDate: start, Installment: decimal.NewFromInt(100), Status: models.EntryOverdue},
		{TokenID: 7, Seq: 2, DueDate: start.AddDate(0, 0, 1), Installment: decimal.NewFromInt(100), Status: models.EntryPending},
	}

	updated, excess, err := AllocatePayment(entries, decimal.NewFromInt(150), start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.True(t, excess.IsZero())

	// Returned in due-date order: oldest fully covered, next partial,
	// newest untouched.
	require.Len(t, updated, 3)
	assert.Equal(t, 1, updated[0].Seq)
	assert.Equal(t, models.EntryPaid, updated[0].Status)
	assert.Equal(t, 2, updated[1].Seq)
	assert.Equal(t, models.EntryPartial, updated[1].Status)
	assert.True(t, updated[1].Paid.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 3, updated[2].Seq)
	assert.Equal(t, models.EntryPending, updated[2].Status)
}

func TestAllocatePayment_SkipsPaidAndReturnsExcess(t *testing.T) {
	entries := []models.ScheduleEntry{
		{TokenID: 7, Seq: 1, DueDate: start, Installment: decimal.NewFromInt(100), Paid: decimal.NewFromInt(100), Status: models.EntryPaid},
		{TokenID: 7, Seq: 2, DueDate: start.AddDate(0, 0, 1), Installment: decimal.NewFromInt(100), Status: models.EntryPending},
	}

	updated, excess, err := AllocatePayment(entries, decimal.NewFromInt(250), start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, models.EntryPaid, updated[1].Status)
	assert.True(t, excess.Equal(decimal.NewFromInt(150)),
		"unallocatable remainder should surface as excess, got %s", excess)
	assert.True(t, FullyPaid(updated))
}

func TestAllocatePayment_BatchTieBreaksByToken(t *testing.T) {
	// Two tokens of one batch share a due date; allocation must be
	// deterministic across runs.
	entries := []models.ScheduleEntry{
		{TokenID: 9, Seq: 1, DueDate: start, Installment: decimal.NewFromInt(100), Status: models.EntryPending},
		{TokenID: 8, Seq: 1, DueDate: start, Installment: decimal.NewFromInt(100), Status: models.EntryPending},
	}

	updated, _, err := AllocatePayment(entries, decimal.NewFromInt(100), start)
	require.NoError(t, err)
	assert.Equal(t, int64(8), updated[0].TokenID)
	assert.Equal(t, models.EntryPaid, updated[0].Status)
	assert.Equal(t, models.EntryPending, updated[1].Status)
}

func TestSplitBatchAmount(t *testing.T) {
	// Batch of 5 tokens collected as one daily sum splits back into 5
	// equal token-level credits.
	shares, err := SplitBatchAmount(decimal.NewFromInt(550), 5)
	require.NoError(t, err)
	require.Len(t, shares, 5)
	for _, s := range shares {
		assert.True(t, s.Equal(decimal.NewFromInt(110)))
	}

	// Uneven amount: last share absorbs the remainder, sum is exact.
	shares, err = SplitBatchAmount(decimal.NewFromFloat(100.01), 3)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	assert.True(t, sum.Equal(decimal.NewFromFloat(100.01)))

	_, err = SplitBatchAmount(decimal.NewFromInt(100), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBatchTotals(t *testing.T) {
	// Batch of 5 identical 2000 tokens: combined totals are 5x the
	// per-token totals.
	terms, err := ComputeTerms(
		decimal.NewFromInt(2_000),
		models.InterestSpec{Type: models.InterestPercent, Value: decimal.NewFromInt(10)},
		30, start,
	)
	require.NoError(t, err)

	qty := decimal.NewFromInt(5)
	assert.True(t, terms.TotalPayable.Mul(qty).Equal(decimal.NewFromInt(11_000)))
	assert.True(t, terms.DailyInstallment.Mul(qty).Equal(decimal.NewFromFloat(366.65)))
}
