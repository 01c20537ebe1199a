package services

import (
	"github.com/apex/log"

	"github.com/wildsighthq/wildsight/config"
	"github.com/wildsighthq/wildsight/db"
	apiError "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
)

type RewardService interface {
	// Catalog returns the static reward catalog. Repeated calls return the
	// same entries.
	Catalog() []models.RewardCatalogEntry
	GetReward(rewardID string) (*models.RewardCatalogEntry, error)
	// Redeem validates affordability, deducts points and records the
	// redemption. The debit and the record write land together or not at
	// all.
	Redeem(userID, rewardID string) (*models.Redemption, error)
	GetRedemptionsByUserID(userID string) ([]models.Redemption, error)
	Balance(userID string) (int, error)
}

type rewardService struct {
	Config          *config.Config
	catalog         []models.RewardCatalogEntry
	redemptionStore db.RedemptionStore
	pointsStore     db.PointsStore
}

func NewRewardService(redemptionStore db.RedemptionStore, pointsStore db.PointsStore, conf *config.Config) RewardService {
	return &rewardService{
		Config:          conf,
		catalog:         models.DefaultRewardCatalog(),
		redemptionStore: redemptionStore,
		pointsStore:     pointsStore,
	}
}

func (s *rewardService) Catalog() []models.RewardCatalogEntry {
	out := make([]models.RewardCatalogEntry, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *rewardService) GetReward(rewardID string) (*models.RewardCatalogEntry, error) {
	for i := range s.catalog {
		if s.catalog[i].ID == rewardID {
			r := s.catalog[i]
			return &r, nil
		}
	}
	return nil, apiError.ErrUnknownReward
}

func (s *rewardService) Redeem(userID, rewardID string) (*models.Redemption, error) {
	reward, err := s.GetReward(rewardID)
	if err != nil {
		return nil, err
	}

	if _, err := s.pointsStore.Debit(userID, reward.Cost); err != nil {
		return nil, err
	}

	redemption := models.NewRedemption(userID, *reward)
	// The server store is the authoritative copy, so the record is born
	// durably accepted.
	redemption.Synced = true
	if err := s.redemptionStore.SaveRedemption(redemption); err != nil {
		// A debit without a recorded redemption is a consistency
		// violation; give the points back.
		if _, cerr := s.pointsStore.Credit(userID, reward.Cost); cerr != nil {
			log.Errorf("failed to refund %d points to %s: %v", reward.Cost, userID, cerr)
		}
		return nil, err
	}

	log.WithField("user_id", userID).Infof("redeemed %s for %d points", reward.Name, reward.Cost)
	return redemption, nil
}

func (s *rewardService) GetRedemptionsByUserID(userID string) ([]models.Redemption, error) {
	return s.redemptionStore.GetRedemptionsByUserID(userID)
}

func (s *rewardService) Balance(userID string) (int, error) {
	return s.pointsStore.Balance(userID)
}
