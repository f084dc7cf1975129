package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/statement-analyzer/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// sendFunc matches (*email.Email).Send so delivery can be replaced in tests
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Message builds the report e-mail without sending it
func (s *Sender) Message(to []string, subject, body string) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = to
	e.Subject = subject
	e.Text = []byte(body + "\nThis report was generated automatically by Statement Analyzer.\n")
	return e
}

// SendReport e-mails a plain text report to every recipient
func (s *Sender) SendReport(to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("failed to send report: no recipients")
	}
	e := s.Message(to, subject, body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send report to %v: %v", to, err)
		return fmt.Errorf("failed to send report: %w", err)
	}

	s.logger.Infof("Email sent to %v: %s", to, e.Subject)
	return nil
}
