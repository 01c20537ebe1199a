package models

import (
	"time"

	"github.com/google/uuid"
)

// Redemption records a user spending points on a catalog reward. RewardName
// and Cost are copied from the catalog at redemption time so the record
// survives later catalog edits. Synced is false while only the local copy
// exists and flips to true once the server has durably accepted the record.
type Redemption struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RewardID   string    `json:"reward_id"`
	RewardName string    `json:"reward_name"`
	Cost       int       `json:"cost"`
	Created    time.Time `json:"created"`
	Synced     bool      `json:"synced"`
}

func NewRedemption(userID string, reward RewardCatalogEntry) *Redemption {
	return &Redemption{
		ID:         "rd-" + uuid.NewString(),
		UserID:     userID,
		RewardID:   reward.ID,
		RewardName: reward.Name,
		Cost:       reward.Cost,
		Created:    time.Now().UTC(),
	}
}
