package services

import (
	"sync"

	"github.com/apex/log"

	"github.com/wildsighthq/wildsight/config"
	"github.com/wildsighthq/wildsight/db"
	"github.com/wildsighthq/wildsight/models"
)

type ReportService interface {
	// SubmitReport creates a pending report and grants the submission
	// award. Every call that reaches this point is a new report and a new
	// award; retry-safety for a repeated logical submission belongs to the
	// caller.
	SubmitReport(userID, location, description, imageRef string) (*models.SubmitReportResponse, error)
	// VerifyReport transitions a report to verified and grants the
	// verification bonus at most once per report. A second call is a
	// no-op reporting AlreadyVerified.
	VerifyReport(id string) (*models.VerifyReportResponse, error)
	GetAllReports() ([]models.Report, error)
	GetReportByID(id string) (*models.Report, error)
}

type reportService struct {
	Config      *config.Config
	reportStore db.ReportStore
	pointsStore db.PointsStore

	mu          sync.Mutex
	verifyLocks map[string]*sync.Mutex
}

func NewReportService(reportStore db.ReportStore, pointsStore db.PointsStore, conf *config.Config) ReportService {
	return &reportService{
		Config:      conf,
		reportStore: reportStore,
		pointsStore: pointsStore,
		verifyLocks: make(map[string]*sync.Mutex),
	}
}

func (s *reportService) SubmitReport(userID, location, description, imageRef string) (*models.SubmitReportResponse, error) {
	report := models.NewReport(userID, location, description, imageRef)

	if userID != "" {
		if _, err := s.pointsStore.Credit(userID, models.BaseAward); err != nil {
			return nil, err
		}
	}
	if err := s.reportStore.SaveReport(report); err != nil {
		// Undo the award so a failed record write never leaves a credit
		// without a report.
		if userID != "" {
			if _, derr := s.pointsStore.Debit(userID, models.BaseAward); derr != nil {
				log.Errorf("failed to roll back submission award for %s: %v", userID, derr)
			}
		}
		return nil, err
	}

	log.WithField("report_id", report.ID).Infof("report submitted, %d points awarded", models.BaseAward)
	return &models.SubmitReportResponse{Report: report, Award: models.BaseAward}, nil
}

// verifyLock returns the critical-section lock for one report id. Two
// concurrent verification requests for the same id serialize here, so both
// cannot observe VerifiedAwarded=false.
func (s *reportService) verifyLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.verifyLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.verifyLocks[id] = l
	}
	return l
}

// releaseVerifyLock drops the per-report lock once the report is durably
// verified. Verified is terminal, so later callers re-read that state from
// the store whichever lock instance they land on. Locks for reports that are
// still pending stay in the map: dropping one of those would let two callers
// race the pending->verified transition on different mutexes.
func (s *reportService) releaseVerifyLock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.verifyLocks, id)
}

func (s *reportService) VerifyReport(id string) (*models.VerifyReportResponse, error) {
	lock := s.verifyLock(id)
	lock.Lock()
	defer lock.Unlock()

	report, err := s.reportStore.GetReportByID(id)
	if err != nil {
		return nil, err
	}
	if report.Verified() {
		s.releaseVerifyLock(id)
		return &models.VerifyReportResponse{AlreadyVerified: true}, nil
	}

	awarding := !report.VerifiedAwarded
	updated, err := s.reportStore.UpdateReport(id, func(r *models.Report) error {
		r.Status = models.ReportStatusVerified
		if awarding {
			r.VerifiedAwarded = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	award := 0
	if awarding && updated.UserID != "" {
		if _, err := s.pointsStore.Credit(updated.UserID, models.VerifyAward); err != nil {
			// The flag and the credit must land together. Put the report
			// back so a later retry can award cleanly.
			if _, rerr := s.reportStore.UpdateReport(id, func(r *models.Report) error {
				r.Status = models.ReportStatusPending
				r.VerifiedAwarded = false
				return nil
			}); rerr != nil {
				log.Errorf("failed to roll back verification of %s: %v", id, rerr)
			}
			return nil, err
		}
		award = models.VerifyAward
	}

	log.WithField("report_id", id).Infof("report verified, bonus %d", award)
	s.releaseVerifyLock(id)
	return &models.VerifyReportResponse{Report: updated, Award: award}, nil
}

func (s *reportService) GetAllReports() ([]models.Report, error) {
	return s.reportStore.GetAllReports()
}

func (s *reportService) GetReportByID(id string) (*models.Report, error) {
	return s.reportStore.GetReportByID(id)
}
