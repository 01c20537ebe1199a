package db

import (
	"sync"

	"github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
)

type RedemptionStore interface {
	// SaveRedemption appends, newest-first. Redemption records are
	// append-only: existing entries are never overwritten by a save.
	SaveRedemption(redemption *models.Redemption) error
	GetRedemptionByID(id string) (*models.Redemption, error)
	GetAllRedemptions() ([]models.Redemption, error)
	GetRedemptionsByUserID(userID string) ([]models.Redemption, error)
	// MarkSynced flips the synced flag on the stored copy. No other field
	// changes.
	MarkSynced(id string) (*models.Redemption, error)
}

type redemptionStore struct {
	mu          sync.Mutex
	path        string
	redemptions []models.Redemption
}

func NewRedemptionStore(path string) RedemptionStore {
	s := &redemptionStore{path: path}
	readSnapshot(path, &s.redemptions)
	return s
}

func (s *redemptionStore) SaveRedemption(redemption *models.Redemption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Redemption, 0, len(s.redemptions)+1)
	next = append(next, *redemption)
	next = append(next, s.redemptions...)
	if err := writeSnapshot(s.path, next); err != nil {
		return err
	}
	s.redemptions = next
	return nil
}

func (s *redemptionStore) GetRedemptionByID(id string) (*models.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.redemptions {
		if s.redemptions[i].ID == id {
			r := s.redemptions[i]
			return &r, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (s *redemptionStore) GetAllRedemptions() ([]models.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Redemption, len(s.redemptions))
	copy(out, s.redemptions)
	return out, nil
}

func (s *redemptionStore) GetRedemptionsByUserID(userID string) ([]models.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Redemption
	for i := range s.redemptions {
		if s.redemptions[i].UserID == userID {
			out = append(out, s.redemptions[i])
		}
	}
	return out, nil
}

func (s *redemptionStore) MarkSynced(id string) (*models.Redemption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.redemptions {
		if s.redemptions[i].ID != id {
			continue
		}
		updated := s.redemptions[i]
		updated.Synced = true
		next := make([]models.Redemption, len(s.redemptions))
		copy(next, s.redemptions)
		next[i] = updated
		if err := writeSnapshot(s.path, next); err != nil {
			return nil, err
		}
		s.redemptions = next
		r := updated
		return &r, nil
	}
	return nil, errors.ErrNotFound
}
