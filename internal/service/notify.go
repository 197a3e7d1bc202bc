package service

import (
	"errors"
	"time"

	"github.com/microfin/collection-service/internal/loan"
)

// SendReminders emails customers whose installments fall due tomorrow
// and customers carrying freshly overdue entries. Customers without an
// email address are skipped; a failed send is logged and does not stop
// the run.
func (s *Service) SendReminders(asOf time.Time) error {
	if !s.mailer.Enabled() {
		s.log.Debug("Reminders skipped: SMTP not configured")
		return nil
	}

	// Upcoming installments.
	upcoming, err := s.repo.ListDueEntries(asOf.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	sent := 0
	for _, e := range upcoming {
		tok, err := s.repo.FindTokenByID(e.TokenID)
		if err != nil {
			s.log.Errorf("Reminder: token %d lookup failed: %v", e.TokenID, err)
			continue
		}
		customer, err := s.repo.FindCustomerByID(tok.CustomerID)
		if err != nil || customer.Email == "" {
			continue
		}
		if err := s.mailer.SendCollectionReminder(customer.Email, customer.Name, e.DueDate, loan.TotalDue(e), e.Penalty, false); err != nil {
			continue
		}
		sent++
	}

	// Overdue entries, only when a penalty rule is in force.
	cfg, err := s.repo.GetActivePenaltyConfig()
	if errors.Is(err, loan.ErrNoActiveConfig) {
		s.log.Infof("Reminders sent: %d upcoming, overdue notices skipped (no active config)", sent)
		return nil
	}
	if err != nil {
		return err
	}
	overdue, err := s.repo.ListSweepCandidates(asOf, cfg.GraceDays)
	if err != nil {
		return err
	}
	for _, e := range overdue {
		tok, err := s.repo.FindTokenByID(e.TokenID)
		if err != nil {
			continue
		}
		customer, err := s.repo.FindCustomerByID(tok.CustomerID)
		if err != nil || customer.Email == "" {
			continue
		}
		if err := s.mailer.SendCollectionReminder(customer.Email, customer.Name, e.DueDate, loan.TotalDue(e), e.Penalty, true); err != nil {
			continue
		}
		sent++
	}

	s.log.Infof("Reminders sent: %d emails as of %s", sent, asOf.Format("2006-01-02"))
	return nil
}
