package models

// Message is one entry of a chat log, stored under chats/{id}/messages.
// Timestamps are wall-clock milliseconds.
type Message struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Chat      string `json:"chat"`
}
