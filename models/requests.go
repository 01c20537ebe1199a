package models

import "github.com/leebenson/conform"

// SubmitReportRequest is the JSON body for report submission when the image
// has already been placed in the asset store. Multipart submissions carry
// the same fields as form values plus the image file itself.
type SubmitReportRequest struct {
	UserID      string `json:"user_id" conform:"trim"`
	Location    string `json:"location" conform:"trim"`
	Description string `json:"description" conform:"trim"`
	ImageRef    string `json:"image_ref" conform:"trim"`
}

type RedeemRequest struct {
	UserID   string `json:"user_id" binding:"required" conform:"trim"`
	RewardID string `json:"reward_id" binding:"required" conform:"trim"`
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required" conform:"trim"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

// SubmitReportResponse pairs the created report with the award granted for
// it, mirroring what the client reconciles against.
type SubmitReportResponse struct {
	Report *Report `json:"report"`
	Award  int     `json:"award"`
}

// VerifyReportResponse reports either a fresh verification with its bonus
// or that the report had already been verified (no award, no side effect).
type VerifyReportResponse struct {
	Report          *Report `json:"report,omitempty"`
	Award           int     `json:"award,omitempty"`
	AlreadyVerified bool    `json:"already_verified,omitempty"`
}

// ValidateWhiteSpaces strips leading/trailing whitespace on tagged string
// fields in place.
func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}
