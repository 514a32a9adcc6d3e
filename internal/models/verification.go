package models

// VerificationRecord tracks a pending email verification, stored under
// verifications/. Removed once the matching code is presented.
type VerificationRecord struct {
	ID     string `json:"id,omitempty"`
	Email  string `json:"email"`
	UserID string `json:"userid"`
	Code   string `json:"verificationcode"`
}
