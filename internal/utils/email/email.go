package email

import (
	"fmt"
	"net/smtp"
	"os"
	"sync"

	"github.com/dundie/rewards-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Transport delivers a single message. Two implementations exist: a real
// SMTP transport and a debug sink that appends to a local log file.
type Transport interface {
	Send(to, subject, body string) error
}

// NewTransport picks the transport selected by configuration.
func NewTransport(cfg *config.Config, logger *logrus.Logger) Transport {
	if cfg.EmailDebug {
		return NewDebugTransport(cfg.EmailLogFile, logger)
	}
	return NewSMTPTransport(cfg, logger)
}

// SMTPTransport sends email via an authenticated SMTP relay
type SMTPTransport struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSMTPTransport creates a new SMTP transport
func NewSMTPTransport(cfg *config.Config, logger *logrus.Logger) *SMTPTransport {
	return &SMTPTransport{
		cfg:    cfg,
		logger: logger,
	}
}

// Send delivers the message over SMTP
func (s *SMTPTransport) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}

// DebugTransport appends messages to a local append-only log file instead of
// delivering them. Intended for development.
type DebugTransport struct {
	path   string
	mu     sync.Mutex
	logger *logrus.Logger
}

// NewDebugTransport creates a debug transport writing to path
func NewDebugTransport(path string, logger *logrus.Logger) *DebugTransport {
	return &DebugTransport{path: path, logger: logger}
}

// Send appends the framed message to the debug log file
func (d *DebugTransport) Send(to, subject, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open email log: %w", err)
	}
	defer f.Close()

	block := fmt.Sprintf("--- START EMAIL %s ---\nSubject: %s\n%s\n--- END OF EMAIL ---\n", to, subject, body)
	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("failed to write email log: %w", err)
	}

	d.logger.Infof("Email written to %s for %s: %s", d.path, to, subject)
	return nil
}
