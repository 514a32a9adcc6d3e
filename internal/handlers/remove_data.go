package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/services"
)

// DataRemover defines the interface that the service must implement.
type DataRemover interface {
	RemoveData(ctx context.Context, id string, fields []string) error
}

// RemoveDataRequest represents the JSON body for removing profile fields
// swagger:model RemoveDataRequest
type RemoveDataRequest struct {
	// User id
	// required: true
	ID string `json:"id"`

	// Field names to remove from the user document
	// required: true
	Fields []string `json:"fields"`
}

// RemoveDataResponse represents a successful field removal response
// swagger:model RemoveDataResponse
type RemoveDataResponse struct {
	// Success message
	// default: Data removed
	Message string `json:"message"`
}

// RemoveDataErrorResponse represents an error response for a field removal
// swagger:model RemoveDataErrorResponse
type RemoveDataErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewRemoveDataHandler returns an HTTP handler for removing profile fields.
// @Summary Remove profile data
// @Description Deletes the listed fields from the user document. Password, id and email cannot be removed.
// @Tags user
// @Accept json
// @Produce json
// @Param removeDataRequest body handlers.RemoveDataRequest true "Field removal request"
// @Success 200 {object} handlers.RemoveDataResponse "Data removed"
// @Failure 400 {object} handlers.RemoveDataErrorResponse "Missing id or fields"
// @Failure 404 {object} handlers.RemoveDataErrorResponse "User not found"
// @Router /user/removedata [post]
func NewRemoveDataHandler(svc DataRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RemoveDataRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RemoveDataErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.ID == "" || len(req.Fields) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RemoveDataErrorResponse{
				Error: "Id or fields missing",
			})
			return
		}

		if err := svc.RemoveData(r.Context(), req.ID, req.Fields); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(RemoveDataErrorResponse{
					Error: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RemoveDataErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(RemoveDataResponse{
			Message: "Data removed",
		})
	}
}
