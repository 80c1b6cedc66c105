package service

import (
	"errors"

	"github.com/dundie/rewards-service/internal/models"
)

// EnsureAdminUser seeds the management account on first boot. Re-running is
// harmless: a uniqueness conflict means the account already exists and is
// swallowed.
func (s *Service) EnsureAdminUser() error {
	_, err := s.CreateUser(CreateUserDraft{
		Name:     "Admin",
		Username: "admin",
		Email:    "admin@dm.com",
		Dept:     models.ManagementDept,
		Currency: "USD",
		Password: "admin",
	})
	if errors.Is(err, models.ErrConflict) {
		s.log.Debug("Admin user already present, skipping seed")
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info("Admin user seeded")
	return nil
}
