package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/collection-service/internal/models"
)

func TestAppend(t *testing.T) {
	after, err := Append(decimal.NewFromInt(100), models.TxnCredit, decimal.NewFromInt(50), false)
	require.NoError(t, err)
	assert.True(t, after.Equal(decimal.NewFromInt(150)))

	after, err = Append(after, models.TxnDebit, decimal.NewFromInt(120), false)
	require.NoError(t, err)
	assert.True(t, after.Equal(decimal.NewFromInt(30)))
}

func TestAppend_RejectsOverdraw(t *testing.T) {
	_, err := Append(decimal.NewFromInt(30), models.TxnDebit, decimal.NewFromInt(40), false)
	assert.ErrorIs(t, err, ErrOverdraw)

	// Admin adjustments may overdraw explicitly.
	after, err := Append(decimal.NewFromInt(30), models.TxnDebit, decimal.NewFromInt(40), true)
	require.NoError(t, err)
	assert.True(t, after.Equal(decimal.NewFromInt(-10)))
}

func TestAppend_RejectsBadInput(t *testing.T) {
	_, err := Append(decimal.NewFromInt(10), models.TxnCredit, decimal.Zero, false)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Append(decimal.NewFromInt(10), models.TxnCredit, decimal.NewFromInt(-5), false)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Append(decimal.NewFromInt(10), "transfer", decimal.NewFromInt(5), false)
	assert.Error(t, err)
}

func TestNewTransaction(t *testing.T) {
	txn, err := NewTransaction(3, models.TxnCredit, decimal.NewFromInt(500), decimal.NewFromInt(250), "collection 2025-03-01", 3, false)
	require.NoError(t, err)
	assert.NotEmpty(t, txn.Reference)
	assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, int64(3), txn.UserID)
}

func TestReplay(t *testing.T) {
	history := []models.LedgerTransaction{
		{Reference: "a", Type: models.TxnCredit, Amount: decimal.NewFromInt(500), BalanceAfter: decimal.NewFromInt(500)},
		{Reference: "b", Type: models.TxnDebit, Amount: decimal.NewFromInt(200), BalanceAfter: decimal.NewFromInt(300)},
		{Reference: "c", Type: models.TxnCredit, Amount: decimal.NewFromInt(50), BalanceAfter: decimal.NewFromInt(350)},
	}

	balance, err := Replay(history)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(350)))

	// Corrupt a recorded balance.
	history[2].BalanceAfter = decimal.NewFromInt(999)
	_, err = Replay(history)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 2")
}
