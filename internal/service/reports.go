package service

import (
	"time"

	"github.com/microfin/collection-service/internal/export"
	"github.com/microfin/collection-service/internal/models"
)

// DailySummary aggregates one day's collections
func (s *Service) DailySummary(day time.Time) (*models.DailyCollectionSummary, error) {
	return s.repo.DailyCollectionSummary(day)
}

// OverdueAging lists overdue tokens with outstanding and penalty totals
func (s *Service) OverdueAging(asOf time.Time) ([]models.OverdueAgingRow, error) {
	return s.repo.OverdueAging(asOf)
}

// DaySheetXML renders one day's collections as an XML day sheet for the
// back office
func (s *Service) DaySheetXML(day time.Time) ([]byte, error) {
	summary, err := s.repo.DailyCollectionSummary(day)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(0, &day)
	if err != nil {
		return nil, err
	}
	return export.BuildDaySheet(*summary, payments)
}

// CollectorDashboard is the collector portal's landing data: today's
// dues across open tokens, the collector's receipts for the day, and
// their cash balance
type CollectorDashboard struct {
	Date        string                 `json:"date"`
	DueEntries  []models.ScheduleEntry `json:"due_entries"`
	MyPayments  []models.Payment       `json:"my_payments"`
	MyStatement *AccountStatement      `json:"my_statement"`
}

// GetCollectorDashboard assembles the collector portal dashboard
func (s *Service) GetCollectorDashboard(collectorID int64, day time.Time) (*CollectorDashboard, error) {
	due, err := s.repo.ListDueEntries(day)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(collectorID, &day)
	if err != nil {
		return nil, err
	}
	statement, err := s.GetStatement(collectorID, 20)
	if err != nil {
		return nil, err
	}
	return &CollectorDashboard{
		Date:        day.Format("2006-01-02"),
		DueEntries:  due,
		MyPayments:  payments,
		MyStatement: statement,
	}, nil
}
