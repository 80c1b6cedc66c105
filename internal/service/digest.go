package service

// SendBalanceDigests mails every user their current balance. Run from the
// cron schedule configured via DIGEST_CRON. Failures for individual users are
// logged and do not stop the run.
func (s *Service) SendBalanceDigests() {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.log.Errorf("Balance digest: failed to list users: %v", err)
		return
	}

	for _, user := range users {
		balance, err := s.Balance(user.ID)
		if err != nil {
			s.log.Errorf("Balance digest: failed to compute balance for %s: %v", user.Username, err)
			continue
		}
		if err := s.mailer.SendBalanceDigest(user.Email, user.Username, balance, user.Currency); err != nil {
			s.log.Errorf("Balance digest: failed to mail %s: %v", user.Email, err)
		}
	}

	s.log.Infof("Balance digest run finished for %d users", len(users))
}
