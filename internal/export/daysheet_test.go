package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfin/collection-service/internal/models"
)

func TestBuildDaySheet(t *testing.T) {
	tokenID := int64(7)
	summary := models.DailyCollectionSummary{
		Date:         "2025-03-01",
		TotalAmount:  decimal.NewFromFloat(733.34),
		CashAmount:   decimal.NewFromFloat(366.67),
		UPIAmount:    decimal.NewFromFloat(366.67),
		BankAmount:   decimal.Zero,
		PaymentCount: 2,
		ByCollector: []models.CollectorCollection{
			{CollectorID: 3, CollectorName: "ravi", Amount: decimal.NewFromFloat(733.34), PaymentCount: 2},
		},
	}
	payments := []models.Payment{
		{
			Reference:   "ref-1",
			ReceiptNo:   "RCP000000001",
			TokenID:     &tokenID,
			CollectorID: 3,
			Amount:      decimal.NewFromFloat(366.67),
			Mode:        models.ModeCash,
			PaidOn:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	out, err := BuildDaySheet(summary, payments)
	require.NoError(t, err)

	// The output must parse back and carry the totals.
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("DaySheet")
	require.NotNil(t, root)
	assert.Equal(t, "2025-03-01", root.SelectAttrValue("date", ""))

	collected := doc.FindElement("//Totals/Collected")
	require.NotNil(t, collected)
	assert.Equal(t, "733.34", collected.Text())

	rows := doc.FindElements("//Payments/Payment")
	require.Len(t, rows, 1)
	assert.Equal(t, "RCP000000001", rows[0].SelectAttrValue("receipt", ""))
	assert.Equal(t, "7", rows[0].SelectAttrValue("token", ""))

	mode := rows[0].FindElement("./Mode")
	require.NotNil(t, mode)
	assert.Equal(t, "cash", mode.Text())
}
