package service

// Ledger operations and the balance engine. The ledger is append-only; a
// user's balance is always recomputed from it, never read from a stored
// counter, so the two cannot drift apart.

import (
	"github.com/dundie/rewards-service/internal/models"
)

// AddTransaction appends a point transfer from one user to another
func (s *Service) AddTransaction(fromUsername, toUsername string, value int64) (*models.Transaction, error) {
	from, err := s.repo.FindUserByUsername(fromUsername)
	if err != nil {
		return nil, err
	}
	to, err := s.repo.FindUserByUsername(toUsername)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		Value:      value,
		FromUserID: from.ID,
		ToUserID:   to.ID,
		FromUser:   from.Username,
		ToUser:     to.Username,
	}
	if err := s.repo.CreateTransaction(tx); err != nil {
		return nil, err
	}

	s.log.Infof("Transaction: %d points from %s to %s", value, from.Username, to.Username)
	return tx, nil
}

// Transactions lists the ledger entries involving the user, oldest first
func (s *Service) Transactions(username string) ([]models.Transaction, error) {
	user, err := s.repo.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.repo.TransactionsInvolving(user.ID)
}

// Balance computes the user's current balance from the ledger: incoming
// values added, outgoing subtracted, zero when the user has no transactions.
func (s *Service) Balance(userID int64) (int64, error) {
	txs, err := s.repo.TransactionsInvolving(userID)
	if err != nil {
		return 0, err
	}
	return netValue(userID, txs), nil
}

// netValue folds the ledger entries for the given user. The fold is
// commutative, so the result does not depend on entry order. A transfer to
// oneself adds and subtracts the same value and nets to zero.
func netValue(userID int64, txs []models.Transaction) int64 {
	var balance int64
	for _, tx := range txs {
		if tx.ToUserID == userID {
			balance += tx.Value
		}
		if tx.FromUserID == userID {
			balance -= tx.Value
		}
	}
	return balance
}
