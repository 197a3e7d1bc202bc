// Package export renders collection reports into interchange formats.
package export

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/microfin/collection-service/internal/models"
)

// BuildDaySheet renders one day's collection summary and its payments
// as an XML document, the format the back office imports into its
// accounting system.
func BuildDaySheet(summary models.DailyCollectionSummary, payments []models.Payment) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("DaySheet")
	root.CreateAttr("date", summary.Date)

	totals := root.CreateElement("Totals")
	totals.CreateElement("Collected").SetText(summary.TotalAmount.StringFixed(2))
	totals.CreateElement("Cash").SetText(summary.CashAmount.StringFixed(2))
	totals.CreateElement("UPI").SetText(summary.UPIAmount.StringFixed(2))
	totals.CreateElement("BankTransfer").SetText(summary.BankAmount.StringFixed(2))
	totals.CreateElement("PaymentCount").SetText(fmt.Sprintf("%d", summary.PaymentCount))

	collectors := root.CreateElement("Collectors")
	for _, c := range summary.ByCollector {
		el := collectors.CreateElement("Collector")
		el.CreateAttr("id", fmt.Sprintf("%d", c.CollectorID))
		el.CreateAttr("name", c.CollectorName)
		el.CreateElement("Amount").SetText(c.Amount.StringFixed(2))
		el.CreateElement("Payments").SetText(fmt.Sprintf("%d", c.PaymentCount))
	}

	list := root.CreateElement("Payments")
	for _, p := range payments {
		el := list.CreateElement("Payment")
		el.CreateAttr("reference", p.Reference)
		el.CreateAttr("receipt", p.ReceiptNo)
		if p.TokenID != nil {
			el.CreateAttr("token", fmt.Sprintf("%d", *p.TokenID))
		}
		if p.BatchID != nil {
			el.CreateAttr("batch", fmt.Sprintf("%d", *p.BatchID))
		}
		el.CreateElement("Amount").SetText(p.Amount.StringFixed(2))
		el.CreateElement("Mode").SetText(string(p.Mode))
		el.CreateElement("Collector").SetText(fmt.Sprintf("%d", p.CollectorID))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render day sheet: %w", err)
	}
	return out, nil
}
