package db

import (
	"sync"

	"github.com/pkg/errors"

	apiError "github.com/wildsighthq/wildsight/errors"
)

// PointsStore holds one non-negative integer balance per user id. The check
// in Debit is the only guard against a negative balance, so every mutation
// runs under the store mutex and is persisted before it is applied.
type PointsStore interface {
	Balance(userID string) (int, error)
	Credit(userID string, amount int) (int, error)
	// Debit fails with ErrInsufficientFunds and performs no mutation when
	// amount exceeds the current balance. Redeeming down to exactly zero
	// succeeds.
	Debit(userID string, amount int) (int, error)
}

type pointsStore struct {
	mu       sync.Mutex
	path     string
	balances map[string]int
}

func NewPointsStore(path string) PointsStore {
	s := &pointsStore{path: path, balances: make(map[string]int)}
	readSnapshot(path, &s.balances)
	if s.balances == nil {
		s.balances = make(map[string]int)
	}
	return s
}

func (s *pointsStore) Balance(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[userID], nil
}

func (s *pointsStore) Credit(userID string, amount int) (int, error) {
	if amount < 0 {
		return 0, errors.Wrap(apiError.ErrBadRequest, "credit amount must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apply(userID, s.balances[userID]+amount)
}

func (s *pointsStore) Debit(userID string, amount int) (int, error) {
	if amount < 0 {
		return 0, errors.Wrap(apiError.ErrBadRequest, "debit amount must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.balances[userID]
	if amount > current {
		return current, apiError.ErrInsufficientFunds
	}
	return s.apply(userID, current-amount)
}

// apply persists the snapshot first; the in-memory balance only changes
// once the write has succeeded.
func (s *pointsStore) apply(userID string, balance int) (int, error) {
	prev, had := s.balances[userID]
	s.balances[userID] = balance
	if err := writeSnapshot(s.path, s.balances); err != nil {
		if had {
			s.balances[userID] = prev
		} else {
			delete(s.balances, userID)
		}
		return prev, err
	}
	return balance, nil
}
