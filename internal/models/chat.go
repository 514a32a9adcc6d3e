package models

import "time"

// Chat is the chat log document stored at chats/{id}. Messages live in the
// chats/{id}/messages collection; Participants makes membership queryable
// instead of leaving it implicit in message history.
type Chat struct {
	ID           string    `json:"id,omitempty"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}
