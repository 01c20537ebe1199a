package db

import (
	"sync"

	"github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
)

type ReportStore interface {
	SaveReport(report *models.Report) error
	GetReportByID(id string) (*models.Report, error)
	GetAllReports() ([]models.Report, error)
	// UpdateReport applies mutate to the stored report under the store's
	// critical section and persists the result. If mutate errors or the
	// snapshot write fails, the in-memory copy is left exactly as it was.
	UpdateReport(id string, mutate func(*models.Report) error) (*models.Report, error)
	// ReplaceReport swaps the entity stored under id for report, which may
	// carry a different id. Used when a server-canonical copy supersedes a
	// locally created one.
	ReplaceReport(id string, report *models.Report) error
}

type reportStore struct {
	mu      sync.Mutex
	path    string
	reports []models.Report
}

func NewReportStore(path string) ReportStore {
	s := &reportStore{path: path}
	readSnapshot(path, &s.reports)
	return s
}

// SaveReport prepends, keeping the set ordered newest-first for display.
func (s *reportStore) SaveReport(report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Report, 0, len(s.reports)+1)
	next = append(next, *report)
	next = append(next, s.reports...)
	if err := writeSnapshot(s.path, next); err != nil {
		return err
	}
	s.reports = next
	return nil
}

func (s *reportStore) GetReportByID(id string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID == id {
			r := s.reports[i]
			return &r, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (s *reportStore) ReplaceReport(id string, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID != id {
			continue
		}
		next := make([]models.Report, len(s.reports))
		copy(next, s.reports)
		next[i] = *report
		if err := writeSnapshot(s.path, next); err != nil {
			return err
		}
		s.reports = next
		return nil
	}
	return errors.ErrNotFound
}

func (s *reportStore) GetAllReports() ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Report, len(s.reports))
	copy(out, s.reports)
	return out, nil
}

func (s *reportStore) UpdateReport(id string, mutate func(*models.Report) error) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID != id {
			continue
		}
		updated := s.reports[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		next := make([]models.Report, len(s.reports))
		copy(next, s.reports)
		next[i] = updated
		if err := writeSnapshot(s.path, next); err != nil {
			return nil, err
		}
		s.reports = next
		r := updated
		return &r, nil
	}
	return nil, errors.ErrNotFound
}
