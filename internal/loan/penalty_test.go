package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/collection-service/internal/models"
)

func pendingEntry(installment float64, due time.Time) models.ScheduleEntry {
	return models.ScheduleEntry{
		TokenID:       7,
		Seq:           11,
		DueDate:       due,
		Installment:   decimal.NewFromFloat(installment),
		Penalty:       decimal.Zero,
		PenaltyWaived: decimal.Zero,
		Paid:          decimal.Zero,
		Status:        models.EntryPending,
	}
}

func fixedConfig(value float64, graceDays int) models.PenaltyConfig {
	return models.PenaltyConfig{
		Type:      models.PenaltyFixed,
		Value:     decimal.NewFromFloat(value),
		GraceDays: graceDays,
		Active:    true,
	}
}

func TestApplyPenalty_WithinGrace(t *testing.T) {
	due := start.AddDate(0, 0, 10)
	e := pendingEntry(366.67, due)
	cfg := fixedConfig(10, 2)

	// On the due date and through the whole grace window: no penalty.
	for _, asOf := range []time.Time{due, due.AddDate(0, 0, 1), due.AddDate(0, 0, 2)} {
		got := ApplyPenalty(e, cfg, asOf)
		assert.True(t, got.Penalty.IsZero(), "asOf %s should stay penalty-free", asOf)
		assert.Equal(t, models.EntryPending, got.Status)
	}
}

func TestApplyPenalty_FixedAfterGrace(t *testing.T) {
	// Entry 11 of a 10000+1000/30 token, zero grace, unpaid at day 12.
	due := start.AddDate(0, 0, 10)
	e := pendingEntry(366.67, due)
	cfg := fixedConfig(10, 0)

	got := ApplyPenalty(e, cfg, start.AddDate(0, 0, 11))
	assert.True(t, got.Penalty.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, models.EntryOverdue, got.Status)
	assert.True(t, TotalDue(got).Equal(decimal.NewFromFloat(376.67)),
		"total due should be 366.67 + 10.00, got %s", TotalDue(got))
}

func TestApplyPenalty_Percent(t *testing.T) {
	due := start
	e := pendingEntry(400, due)
	cfg := models.PenaltyConfig{
		Type:      models.PenaltyPercent,
		Value:     decimal.NewFromInt(5),
		GraceDays: 1,
		Active:    true,
	}

	got := ApplyPenalty(e, cfg, due.AddDate(0, 0, 3))
	assert.True(t, got.Penalty.Equal(decimal.NewFromInt(20)),
		"5%% of 400 should be 20, got %s", got.Penalty)
	assert.Equal(t, models.EntryOverdue, got.Status)
}

func TestApplyPenalty_SkipsPaidAndOverridden(t *testing.T) {
	due := start
	cfg := fixedConfig(25, 0)
	asOf := due.AddDate(0, 0, 5)

	paid := pendingEntry(400, due)
	paid.Status = models.EntryPaid
	paid.Paid = paid.Installment
	got := ApplyPenalty(paid, cfg, asOf)
	assert.True(t, got.Penalty.IsZero())
	assert.Equal(t, models.EntryPaid, got.Status)

	overridden := OverridePenalty(pendingEntry(400, due), decimal.NewFromInt(5))
	got = ApplyPenalty(overridden, cfg, asOf)
	assert.True(t, got.Penalty.Equal(decimal.NewFromInt(5)),
		"sweep must not recompute a manual override, got %s", got.Penalty)
}

func TestApplyPenalty_TotalDueMonotonic(t *testing.T) {
	// Holding config fixed, total due never decreases as asOf advances
	// past the grace window until a payment or waiver lands.
	due := start
	e := pendingEntry(366.67, due)
	cfg := fixedConfig(10, 1)

	prev := TotalDue(e)
	for day := 0; day <= 10; day++ {
		e = ApplyPenalty(e, cfg, due.AddDate(0, 0, day))
		now := TotalDue(e)
		assert.True(t, now.GreaterThanOrEqual(prev),
			"day %d: total due %s dropped below %s", day, now, prev)
		prev = now
	}
}

func TestApplyPenalty_Idempotent(t *testing.T) {
	due := start
	cfg := fixedConfig(10, 0)
	asOf := due.AddDate(0, 0, 3)

	once := ApplyPenalty(pendingEntry(366.67, due), cfg, asOf)
	twice := ApplyPenalty(once, cfg, asOf)
	assert.True(t, once.Penalty.Equal(twice.Penalty))
	assert.Equal(t, once.Status, twice.Status)
}

func TestWaivePenalty_Clamped(t *testing.T) {
	due := start
	e := ApplyPenalty(pendingEntry(366.67, due), fixedConfig(10, 0), due.AddDate(0, 0, 2))
	require.True(t, e.Penalty.Equal(decimal.NewFromInt(10)))

	// Waiver above the accrual clamps to it; total due never drops
	// below the bare installment.
	got := WaivePenalty(e, decimal.NewFromInt(50))
	assert.True(t, got.PenaltyWaived.Equal(decimal.NewFromInt(10)))
	assert.True(t, TotalDue(got).Equal(got.Installment))

	// Negative waiver clamps to zero.
	got = WaivePenalty(e, decimal.NewFromInt(-3))
	assert.True(t, got.PenaltyWaived.IsZero())

	// A second waiver replaces the first, it does not accumulate.
	got = WaivePenalty(WaivePenalty(e, decimal.NewFromInt(4)), decimal.NewFromInt(6))
	assert.True(t, got.PenaltyWaived.Equal(decimal.NewFromInt(6)))
	// The accrual itself is untouched.
	assert.True(t, got.Penalty.Equal(decimal.NewFromInt(10)))
}

func TestOverridePenalty(t *testing.T) {
	due := start
	e := ApplyPenalty(pendingEntry(366.67, due), fixedConfig(10, 0), due.AddDate(0, 0, 2))

	got := OverridePenalty(e, decimal.NewFromInt(75))
	assert.True(t, got.Penalty.Equal(decimal.NewFromInt(75)))
	assert.True(t, got.PenaltyOverridden)
	assert.Equal(t, models.EntryOverdue, got.Status)

	// Override below an existing waiver pulls the waiver down with it.
	waived := WaivePenalty(e, decimal.NewFromInt(10))
	got = OverridePenalty(waived, decimal.NewFromInt(4))
	assert.True(t, got.PenaltyWaived.Equal(decimal.NewFromInt(4)))
}

func TestBatchPenalty(t *testing.T) {
	total := BatchPenalty(decimal.NewFromInt(10), 5)
	assert.True(t, total.Equal(decimal.NewFromInt(50)))
}
