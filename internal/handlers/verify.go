package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/services"
)

// Verifier defines the interface that the service must implement.
type Verifier interface {
	Verify(ctx context.Context, email, code string) error
}

// VerifyRequest represents the JSON body for account verification
// swagger:model VerifyRequest
type VerifyRequest struct {
	// Email
	// required: true
	// default: alice@example.com
	Email string `json:"email"`

	// Six-digit verification code
	// required: true
	// default: 123456
	Code string `json:"code"`
}

// VerifyResponse represents a successful verification response
// swagger:model VerifyResponse
type VerifyResponse struct {
	// Success message
	// default: Account verified
	Message string `json:"message"`
}

// VerifyErrorResponse represents an error response for verification
// swagger:model VerifyErrorResponse
type VerifyErrorResponse struct {
	// Error message
	// default: Verification code does not match
	Error string `json:"error"`
}

// NewVerifyHandler returns an HTTP handler for account verification.
// @Summary Verify a registered account
// @Description Checks the emailed code against the stored one and marks the account verified. Verifying an already verified account succeeds.
// @Tags user
// @Accept json
// @Produce json
// @Param verifyRequest body handlers.VerifyRequest true "Account verification request"
// @Success 200 {object} handlers.VerifyResponse "Account verified"
// @Failure 400 {object} handlers.VerifyErrorResponse "Missing email or code"
// @Failure 404 {object} handlers.VerifyErrorResponse "Unknown user or no pending verification for this email"
// @Failure 409 {object} handlers.VerifyErrorResponse "Verification code does not match"
// @Router /user/verify [post]
func NewVerifyHandler(svc Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(VerifyErrorResponse{
				Error: "invalid request body",
			})
			return
		}
		if req.Email == "" || req.Code == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(VerifyErrorResponse{
				Error: "Email or code missing",
			})
			return
		}

		if err := svc.Verify(r.Context(), req.Email, req.Code); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(VerifyErrorResponse{
					Error: "User not found",
				})
			case errors.Is(err, services.ErrVerificationNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(VerifyErrorResponse{
					Error: "No pending verification for this email",
				})
			case errors.Is(err, services.ErrCodeMismatch):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(VerifyErrorResponse{
					Error: "Verification code does not match",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(VerifyErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(VerifyResponse{
			Message: "Account verified",
		})
	}
}
