package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/services"
)

// ResetRequester defines the interface that the service must implement.
type ResetRequester interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// ResetPasswordRequest represents the JSON body for a password reset request
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// Email
	// required: true
	// default: alice@example.com
	Email string `json:"email"`
}

// ResetPasswordResponse represents a successful reset request response
// swagger:model ResetPasswordResponse
type ResetPasswordResponse struct {
	// Success message
	// default: Password reset email sent
	Message string `json:"message"`
}

// ResetPasswordErrorResponse represents an error response for a reset request
// swagger:model ResetPasswordErrorResponse
type ResetPasswordErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`
}

// NewResetPasswordHandler returns an HTTP handler for requesting a password reset.
// @Summary Request a password reset
// @Description Stores a reset request and emails the user a link that is valid for 24 hours.
// @Tags user
// @Accept json
// @Produce json
// @Param resetPasswordRequest body handlers.ResetPasswordRequest true "Password reset request"
// @Success 200 {object} handlers.ResetPasswordResponse "Reset email sent"
// @Failure 400 {object} handlers.ResetPasswordErrorResponse "Missing email"
// @Failure 404 {object} handlers.ResetPasswordErrorResponse "User not found"
// @Router /user/resetpassword [post]
func NewResetPasswordHandler(svc ResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.Email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
				Error: "Email missing",
			})
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Error: "User not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResetPasswordResponse{
			Message: "Password reset email sent",
		})
	}
}
