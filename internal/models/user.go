package models

import "time"

// User represents a user document stored at users/{id}.
type User struct {
	ID            string     `json:"id,omitempty"`            // Store-generated key
	Email         string     `json:"email"`                   // Unique email
	Username      string     `json:"username"`                // Display username
	UsernameLower string     `json:"usernameLower,omitempty"` // Lowercased username, unique
	Password      string     `json:"password,omitempty"`      // bcrypt hash; stripped before responses
	CreatedAt     time.Time  `json:"created_at"`              // Creation timestamp
	Verified      bool       `json:"verified"`                // Email verification state
	VerifiedAt    *time.Time `json:"verifiedIn,omitempty"`    // Set when verification completes
	Avatar        string     `json:"avatar,omitempty"`        // Avatar URL on the media store
	AvatarID      string     `json:"avatarId,omitempty"`      // Media store public id of the avatar
	Status        string     `json:"status,omitempty"`        // Free-form profile status line
}

// Sanitized returns a copy safe to send to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
