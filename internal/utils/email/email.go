package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/jesuscompany/cash-management/internal/config"
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

// SendLowCashAlert sends a warning that an entity's projected cash goes
// negative within the alert horizon
func (s *Sender) SendLowCashAlert(to, entity string, firstNegativeDate time.Time, projectedLow decimal.Decimal) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Low Cash Alert: %s", entity)

	body := fmt.Sprintf(
		"Projected cash for %s goes negative on %s.\n"+
			"Lowest projected position: %s.\n\n"+
			"Review upcoming vendor payments and outstanding customer invoices.\n",
		entity, firstNegativeDate.Format("2006-01-02"), projectedLow.StringFixed(2),
	)
	body += "\nBest regards,\nCash Management Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendRefreshSummary sends the nightly refresh outcome: how many entities
// were refreshed and which ones raised alerts
func (s *Sender) SendRefreshSummary(to string, refreshed int, alertEntities []string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Nightly Cash Projection Refresh"

	body := fmt.Sprintf(
		"Nightly projection refresh completed at %s.\n"+
			"Entities refreshed: %d\n",
		time.Now().Format("2006-01-02 15:04:05"), refreshed,
	)
	if len(alertEntities) > 0 {
		body += "Entities with low cash alerts:\n"
		for _, entity := range alertEntities {
			body += fmt.Sprintf("  - %s\n", entity)
		}
	} else {
		body += "No low cash alerts.\n"
	}
	body += "\nBest regards,\nCash Management Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send refresh summary to %s: %v", to, err)
		return fmt.Errorf("failed to send refresh summary: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
