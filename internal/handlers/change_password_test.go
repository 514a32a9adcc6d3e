package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/cipherhq/echohub-server/internal/services"
)

func TestChangePasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		requestID    string
		password     string
		mockSetup    func(m *MockPasswordChanger)
		expectedCode int
		expectedErr  string
	}{
		{
			name:      "success",
			requestID: "req-1",
			password:  "newsecret",
			mockSetup: func(m *MockPasswordChanger) {
				m.EXPECT().
					ChangePassword(gomock.Any(), "req-1", "newsecret").
					Return(nil)
			},
			expectedCode: 200,
		},
		{
			name:      "request not found",
			requestID: "req-unknown",
			password:  "newsecret",
			mockSetup: func(m *MockPasswordChanger) {
				m.EXPECT().
					ChangePassword(gomock.Any(), "req-unknown", "newsecret").
					Return(services.ErrResetNotFound)
			},
			expectedCode: 404,
			expectedErr:  "Reset request not found",
		},
		{
			name:      "request expired",
			requestID: "req-old",
			password:  "newsecret",
			mockSetup: func(m *MockPasswordChanger) {
				m.EXPECT().
					ChangePassword(gomock.Any(), "req-old", "newsecret").
					Return(services.ErrResetExpired)
			},
			expectedCode: 410,
			expectedErr:  "Reset request expired",
		},
		{
			name:         "missing request id",
			password:     "newsecret",
			expectedCode: 400,
			expectedErr:  "Request id missing",
		},
		{
			name:         "missing password",
			requestID:    "req-1",
			expectedCode: 400,
			expectedErr:  "Password missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPasswordChanger(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewChangePasswordHandler(mockSvc)

			bodyBytes, _ := json.Marshal(ChangePasswordRequest{Password: tt.password})
			target := "/user/changepassword"
			if tt.requestID != "" {
				target += "?request=" + tt.requestID
			}
			req := httptest.NewRequest(http.MethodPost, target, bytes.NewBuffer(bodyBytes))

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedErr != "" {
				var resp ChangePasswordErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
			}
		})
	}
}
