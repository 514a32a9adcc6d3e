package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
	"github.com/cipherhq/echohub-server/internal/services"
)

// MessageSender defines the interface that the service must implement.
type MessageSender interface {
	SendMessage(ctx context.Context, sender, receiver, text, existingChatID string) (*models.Message, error)
}

// SendMessageRequest represents the JSON body for sending a message
// swagger:model SendMessageRequest
type SendMessageRequest struct {
	// Sender user id
	// required: true
	Sender string `json:"sender"`

	// Receiver user id
	// required: true
	Receiver string `json:"receiver"`

	// Message text
	// required: true
	Text string `json:"text"`

	// Chat id known to the client, empty for a first message
	Chat string `json:"chat,omitempty"`
}

// SendMessageResponse represents a successful send response
// swagger:model SendMessageResponse
type SendMessageResponse struct {
	// The stored message, including its chat id
	Data *models.Message `json:"data"`
}

// SendMessageErrorResponse represents an error response for sending a message
// swagger:model SendMessageErrorResponse
type SendMessageErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewSendMessageHandler returns an HTTP handler for sending a chat message.
// @Summary Send a message
// @Description Resolves or creates the chat between sender and receiver, appends the message to its log and links the chat under both users.
// @Tags messages
// @Accept json
// @Produce json
// @Param sendMessageRequest body handlers.SendMessageRequest true "Message to send"
// @Success 201 {object} handlers.SendMessageResponse "Message stored"
// @Failure 400 {object} handlers.SendMessageErrorResponse "Missing sender, receiver or text"
// @Failure 404 {object} handlers.SendMessageErrorResponse "Sender or receiver not found"
// @Router /messages/send [post]
func NewSendMessageHandler(svc MessageSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SendMessageErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.Sender == "" || req.Receiver == "" || req.Text == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SendMessageErrorResponse{
				Error: "Sender, receiver or text missing",
			})
			return
		}

		msg, err := svc.SendMessage(r.Context(), req.Sender, req.Receiver, req.Text, req.Chat)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(SendMessageErrorResponse{
					Error: "User not found",
				})
			case errors.Is(err, services.ErrChatNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(SendMessageErrorResponse{
					Error: "Chat not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(SendMessageErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SendMessageResponse{
			Data: msg,
		})
	}
}
