package email

import (
	"fmt"
	"time"

	"github.com/dundie/rewards-service/internal/config"
	"github.com/sirupsen/logrus"
)

// Mailer formats and sends the domain messages over a Transport.
type Mailer struct {
	transport Transport
	cfg       *config.Config
	logger    *logrus.Logger
}

// NewMailer creates a new mailer
func NewMailer(transport Transport, cfg *config.Config, logger *logrus.Logger) *Mailer {
	return &Mailer{
		transport: transport,
		cfg:       cfg,
		logger:    logger,
	}
}

// SendPasswordReset sends a password reset link to the user
func (m *Mailer) SendPasswordReset(to, username, resetToken string, expires time.Duration) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Please use the following link to reset your password:\n"+
			"%s?pwd_reset_token=%s\n\n"+
			"This link will expire in %d minutes.\n"+
			"\nBest regards,\nDundie Rewards",
		username, m.cfg.PwdResetURL, resetToken, int(expires.Minutes()),
	)
	return m.transport.Send(to, "Password reset for Dundie", body)
}

// SendBalanceDigest sends the user their current points balance
func (m *Mailer) SendBalanceDigest(to, username string, balance int64, currency string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your current rewards balance is %d %s.\n"+
			"\nBest regards,\nDundie Rewards",
		username, balance, currency,
	)
	return m.transport.Send(to, "Your Dundie balance", body)
}
