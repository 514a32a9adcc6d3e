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

// ProfileGetter defines the interface that the service must implement.
type ProfileGetter interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

// ProfileResponse represents a successful profile lookup response
// swagger:model ProfileResponse
type ProfileResponse struct {
	// The requested user, without the password hash
	Data *models.User `json:"data"`
}

// ProfileErrorResponse represents an error response for a profile lookup
// swagger:model ProfileErrorResponse
type ProfileErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewProfileHandler returns an HTTP handler for fetching a user profile.
// @Summary Fetch a user profile
// @Description Returns the user document for the given id, without the password hash.
// @Tags user
// @Produce json
// @Param id query string true "User id"
// @Success 200 {object} handlers.ProfileResponse "User profile"
// @Failure 400 {object} handlers.ProfileErrorResponse "Missing id"
// @Failure 404 {object} handlers.ProfileErrorResponse "User not found"
// @Router /user/profile [post]
func NewProfileHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ProfileErrorResponse{
				Error: "Id missing",
			})
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProfileErrorResponse{
					Error: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProfileErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileResponse{
			Data: user,
		})
	}
}
