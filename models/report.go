package models

import (
	"time"

	"github.com/google/uuid"
)

// Report status values. Status is monotonic: once verified a report never
// goes back to pending.
const (
	ReportStatusPending  = "pending"
	ReportStatusVerified = "verified"
)

// Award points. The submission award is granted on every successful
// submission; the verification bonus is granted at most once per report,
// guarded by VerifiedAwarded.
const (
	BaseAward   = 50
	VerifyAward = 100
)

// Report is a user-submitted sighting record.
type Report struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Created         time.Time `json:"created"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	ImageRef        string    `json:"image_ref"`
	Status          string    `json:"status"`
	VerifiedAwarded bool      `json:"verified_awarded"`
}

// NewReport builds a pending report with a fresh server-side id.
func NewReport(userID, location, description, imageRef string) *Report {
	return &Report{
		ID:          "s-" + uuid.NewString(),
		UserID:      userID,
		Created:     time.Now().UTC(),
		Location:    location,
		Description: description,
		ImageRef:    imageRef,
		Status:      ReportStatusPending,
	}
}

// NewLocalReport builds a pending report with a client-local id. The id is
// replaced wholesale by the server copy once the submission syncs.
func NewLocalReport(userID, location, description, imageRef string) *Report {
	r := NewReport(userID, location, description, imageRef)
	r.ID = "r-" + uuid.NewString()
	return r
}

func (r *Report) Verified() bool {
	return r.Status == ReportStatusVerified
}
