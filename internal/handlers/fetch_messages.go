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

// MessageFetcher defines the interface that the service must implement.
type MessageFetcher interface {
	FetchChat(ctx context.Context, userID, contactID string) (string, []models.Message, error)
}

// FetchMessagesRequest represents the JSON body for fetching a chat log
// swagger:model FetchMessagesRequest
type FetchMessagesRequest struct {
	// User id
	// required: true
	UserID string `json:"userid"`

	// Contact user id
	// required: true
	Contact string `json:"contact"`
}

// FetchMessagesResponse represents a successful chat fetch response
// swagger:model FetchMessagesResponse
type FetchMessagesResponse struct {
	// Chat id, empty when no chat exists between the two users yet
	Chat string `json:"chat"`

	// Messages in append order
	Data []models.Message `json:"data"`
}

// FetchMessagesErrorResponse represents an error response for a chat fetch
// swagger:model FetchMessagesErrorResponse
type FetchMessagesErrorResponse struct {
	// Error message
	// default: Chat not found
	Error string `json:"error"`
}

// NewFetchMessagesHandler returns an HTTP handler for fetching the chat log
// between a user and a contact.
// @Summary Fetch chat messages
// @Description Returns the chat id and messages between the user and the contact in append order. When no chat is linked yet the chat id is empty and the list is empty.
// @Tags messages
// @Accept json
// @Produce json
// @Param fetchMessagesRequest body handlers.FetchMessagesRequest true "Chat fetch request"
// @Success 200 {object} handlers.FetchMessagesResponse "Chat messages"
// @Failure 400 {object} handlers.FetchMessagesErrorResponse "Missing userid or contact"
// @Failure 404 {object} handlers.FetchMessagesErrorResponse "Linked chat no longer exists"
// @Router /messages/fetch [post]
func NewFetchMessagesHandler(svc MessageFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FetchMessagesRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(FetchMessagesErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.UserID == "" || req.Contact == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(FetchMessagesErrorResponse{
				Error: "Userid or contact missing",
			})
			return
		}

		chatID, msgs, err := svc.FetchChat(r.Context(), req.UserID, req.Contact)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrChatNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(FetchMessagesErrorResponse{
					Error: "Chat not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(FetchMessagesErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		if msgs == nil {
			msgs = []models.Message{}
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(FetchMessagesResponse{
			Chat: chatID,
			Data: msgs,
		})
	}
}
