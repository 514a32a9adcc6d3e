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

// ContactLister defines the interface that the service must implement.
type ContactLister interface {
	ListContacts(ctx context.Context, userID string) ([]models.Contact, error)
}

// ContactsRequest represents the JSON body for a contact listing
// swagger:model ContactsRequest
type ContactsRequest struct {
	// User id
	// required: true
	UserID string `json:"userid"`
}

// ContactsResponse represents a successful contact listing response
// swagger:model ContactsResponse
type ContactsResponse struct {
	// Contacts ordered by most recent message first
	Data []models.Contact `json:"data"`
}

// ContactsErrorResponse represents an error response for a contact listing
// swagger:model ContactsErrorResponse
type ContactsErrorResponse struct {
	// Error message
	// default: Userid missing
	Error string `json:"error"`
}

// NewContactsHandler returns an HTTP handler for listing a user's contacts.
// @Summary List contacts
// @Description Returns the user's contacts with their chat id and last message, ordered by most recent activity. Contacts whose user document no longer exists are skipped.
// @Tags user
// @Accept json
// @Produce json
// @Param contactsRequest body handlers.ContactsRequest true "Contact listing request"
// @Success 200 {object} handlers.ContactsResponse "Contacts"
// @Failure 400 {object} handlers.ContactsErrorResponse "Missing userid"
// @Failure 404 {object} handlers.ContactsErrorResponse "User not found"
// @Router /user/fetchcontacts [post]
func NewContactsHandler(svc ContactLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactsRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ContactsErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.UserID == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ContactsErrorResponse{
				Error: "Userid missing",
			})
			return
		}

		contacts, err := svc.ListContacts(r.Context(), req.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ContactsErrorResponse{
					Error: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ContactsErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ContactsResponse{
			Data: contacts,
		})
	}
}
