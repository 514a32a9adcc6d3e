package models

// Contact is one row of a user's aggregated contact list: the contact's user
// record plus the most recent message of the shared chat, if any.
type Contact struct {
	User
	Chat        string   `json:"chat"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}
