package models

import "time"

// PasswordReset is a pending password-reset request, stored under
// passwordResets/. Requests expire 24 hours after Timestamp.
type PasswordReset struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	UserID    string    `json:"userid"`
	Timestamp time.Time `json:"timestamp"`
}
