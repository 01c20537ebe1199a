package models

// RewardCatalogEntry is static reference data: never mutated by the
// points/redemption core.
type RewardCatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Description string `json:"description,omitempty"`
}

// DefaultRewardCatalog is the built-in catalog. Cost is in points.
func DefaultRewardCatalog() []RewardCatalogEntry {
	return []RewardCatalogEntry{
		{ID: "rw-1", Name: "Conservation Sticker Pack", Cost: 200, Description: "A set of wildlife-protection stickers."},
		{ID: "rw-2", Name: "Volunteer Voucher", Cost: 500, Description: "Priority spot at one local volunteer event."},
		{ID: "rw-3", Name: "Field Guide", Cost: 1200, Description: "A pocket guide to local wildlife species."},
	}
}
