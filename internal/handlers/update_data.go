package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/services"
)

// maxUpdateBody bounds multipart bodies, avatars included.
const maxUpdateBody = 10 << 20

// DataUpdater defines the interface that the service must implement.
type DataUpdater interface {
	UpdateData(ctx context.Context, id string, fields map[string]any, avatar io.Reader) (string, error)
}

// UpdateDataResponse represents a successful profile update response
// swagger:model UpdateDataResponse
type UpdateDataResponse struct {
	// Success message
	// default: Data updated
	Message string `json:"message"`

	// New avatar URL, empty when no avatar was uploaded
	Avatar string `json:"avatar,omitempty"`
}

// UpdateDataErrorResponse represents an error response for a profile update
// swagger:model UpdateDataErrorResponse
type UpdateDataErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewUpdateDataHandler returns an HTTP handler for updating profile fields.
// Accepts multipart form data: an "id" field, an optional "avatar" file and a
// "data" field holding a JSON object of profile fields to merge.
// @Summary Update profile data
// @Description Merges the given fields into the user document. An optional avatar file replaces the current Cloudinary asset.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param id formData string true "User id"
// @Param data formData string false "JSON object of fields to merge"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} handlers.UpdateDataResponse "Data updated"
// @Failure 400 {object} handlers.UpdateDataErrorResponse "Malformed form or fields"
// @Failure 404 {object} handlers.UpdateDataErrorResponse "User not found"
// @Router /user/insertdata [post]
func NewUpdateDataHandler(svc DataUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpdateBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateDataErrorResponse{
				Error: "invalid multipart form",
			})
			return
		}

		id := r.FormValue("id")
		if id == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateDataErrorResponse{
				Error: "Id missing",
			})
			return
		}

		fields := map[string]any{}
		if data := r.FormValue("data"); data != "" {
			if err := json.Unmarshal([]byte(data), &fields); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(UpdateDataErrorResponse{
					Error: "invalid data field",
				})
				return
			}
		}

		var avatar io.Reader
		if file, _, err := r.FormFile("avatar"); err == nil {
			defer file.Close()
			avatar = file
		}

		avatarURL, err := svc.UpdateData(r.Context(), id, fields, avatar)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UpdateDataErrorResponse{
					Error: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateDataErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UpdateDataResponse{
			Message: "Data updated",
			Avatar:  avatarURL,
		})
	}
}
