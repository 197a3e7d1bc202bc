package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/microfin/collection-service/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether SMTP is configured; reminders are silently
// skipped when it is not
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

// SendCollectionReminder sends a payment reminder email to a customer
func (s *Sender) SendCollectionReminder(to, name string, dueDate time.Time, amount, penalty decimal.Decimal, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = "Overdue Installment Notification"
	} else {
		e.Subject = "Upcoming Installment Reminder"
	}

	// Format email body
	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	if isOverdue {
		body += fmt.Sprintf(
			"Your installment of %s was due on %s and is now overdue.\n"+
				"A penalty of %s has been applied.\n"+
				"Please pay your collector as soon as possible to avoid further penalties.\n",
			amount.StringFixed(2), dueDate.Format("2006-01-02"), penalty.StringFixed(2),
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your installment of %s is due on %s.\n"+
				"Please keep the amount ready for your collector.\n",
			amount.StringFixed(2), dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nCollections Team"
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendReceipt sends a payment receipt email
func (s *Sender) SendReceipt(to, name, receiptNo string, amount decimal.Decimal, paidOn time.Time) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Payment Receipt %s", receiptNo)

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We have received your payment of %s on %s.\n"+
			"Receipt number: %s\n"+
			"\nBest regards,\nCollections Team",
		name, amount.StringFixed(2), paidOn.Format("2006-01-02"), receiptNo,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	err := e.Send(addr, auth)
	if err != nil {
		s.logger.Errorf("Failed to send receipt to %s: %v", to, err)
		return fmt.Errorf("failed to send receipt: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
