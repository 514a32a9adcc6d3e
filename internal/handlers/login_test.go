package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/cipherhq/echohub-server/internal/models"
	"github.com/cipherhq/echohub-server/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		email        string
		password     string
		mockSetup    func(m *MockLoginer)
		expectedCode int
		expectedErr  string
	}{
		{
			name:     "success",
			email:    "john@example.com",
			password: "secret",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john@example.com", "secret").
					Return(&models.User{ID: "u1", Username: "john"}, "token-123", nil)
			},
			expectedCode: 200,
		},
		{
			name:     "invalid credentials",
			email:    "john@example.com",
			password: "wrong",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john@example.com", "wrong").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedCode: 401,
			expectedErr:  "Invalid email or password",
		},
		{
			name:         "missing password",
			email:        "john@example.com",
			expectedCode: 400,
			expectedErr:  "Email or password missing",
		},
		{
			name:     "internal server error",
			email:    "john@example.com",
			password: "secret",
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john@example.com", "secret").
					Return(nil, "", errors.New("store failure"))
			},
			expectedCode: 500,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewLoginHandler(mockSvc)

			bodyBytes, _ := json.Marshal(LoginRequest{Email: tt.email, Password: tt.password})
			req := httptest.NewRequest(http.MethodPost, "/user/login", bytes.NewBuffer(bodyBytes))

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedErr != "" {
				var resp LoginErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
				return
			}

			var resp LoginResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "token-123", resp.Token)
			assert.Equal(t, "john", resp.Data.Username)
		})
	}
}
