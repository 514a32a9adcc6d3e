package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/services"
)

// PasswordChanger defines the interface that the service must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, requestID, newPassword string) error
}

// ChangePasswordRequest represents the JSON body for completing a password reset
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// New password
	// required: true
	// default: newsecret123
	Password string `json:"password"`
}

// ChangePasswordResponse represents a successful password change response
// swagger:model ChangePasswordResponse
type ChangePasswordResponse struct {
	// Success message
	// default: Password changed successfully
	Message string `json:"message"`
}

// ChangePasswordErrorResponse represents an error response for a password change
// swagger:model ChangePasswordErrorResponse
type ChangePasswordErrorResponse struct {
	// Error message
	// default: Reset request expired
	Error string `json:"error"`
}

// NewChangePasswordHandler returns an HTTP handler for completing a password reset.
// @Summary Change a password via a reset request
// @Description Consumes the reset request identified by the request query parameter and sets the new password. Requests expire after 24 hours.
// @Tags user
// @Accept json
// @Produce json
// @Param request query string true "Reset request id"
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "New password"
// @Success 200 {object} handlers.ChangePasswordResponse "Password changed"
// @Failure 400 {object} handlers.ChangePasswordErrorResponse "Missing request id or password"
// @Failure 404 {object} handlers.ChangePasswordErrorResponse "Reset request not found"
// @Failure 410 {object} handlers.ChangePasswordErrorResponse "Reset request expired"
// @Router /user/changepassword [post]
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.URL.Query().Get("request")
		if requestID == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
				Error: "Request id missing",
			})
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
				Error: "Password missing",
			})
			return
		}

		if err := svc.ChangePassword(r.Context(), requestID, req.Password); err != nil {
			switch {
			case errors.Is(err, services.ErrResetNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
					Error: "Reset request not found",
				})
			case errors.Is(err, services.ErrResetExpired):
				w.WriteHeader(http.StatusGone)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
					Error: "Reset request expired",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ChangePasswordResponse{
			Message: "Password changed successfully",
		})
	}
}
