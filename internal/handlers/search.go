package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
)

// UsernameSearcher defines the interface that the service must implement.
type UsernameSearcher interface {
	SearchByUsername(ctx context.Context, prefix string) ([]models.User, error)
}

// SearchResponse represents a successful username search response
// swagger:model SearchResponse
type SearchResponse struct {
	// Matching users, without password hashes
	Data []models.User `json:"data"`
}

// SearchErrorResponse represents an error response for a username search
// swagger:model SearchErrorResponse
type SearchErrorResponse struct {
	// Error message
	// default: Username missing
	Error string `json:"error"`
}

// NewSearchHandler returns an HTTP handler for searching users by username prefix.
// @Summary Search users by username
// @Description Returns up to five users whose lowercased username starts with the given prefix.
// @Tags user
// @Produce json
// @Param username query string true "Username prefix"
// @Success 200 {object} handlers.SearchResponse "Matching users"
// @Failure 400 {object} handlers.SearchErrorResponse "Missing username"
// @Router /user/fetchbyusername [post]
func NewSearchHandler(svc UsernameSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SearchErrorResponse{
				Error: "Username missing",
			})
			return
		}

		users, err := svc.SearchByUsername(r.Context(), username)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(SearchErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SearchResponse{
			Data: users,
		})
	}
}
