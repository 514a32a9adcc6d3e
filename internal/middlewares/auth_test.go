package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTokener struct {
	token     string
	tokenErr  error
	userID    string
	userIDErr error
}

func (f *fakeTokener) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	return f.token, f.tokenErr
}

func (f *fakeTokener) GetUserID(ctx context.Context, tokenString string) (string, error) {
	return f.userID, f.userIDErr
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		tokener      *fakeTokener
		expectedCode int
		expectedUser string
	}{
		{
			name:         "valid token",
			tokener:      &fakeTokener{token: "t", userID: "u1"},
			expectedCode: http.StatusOK,
			expectedUser: "u1",
		},
		{
			name:         "missing token",
			tokener:      &fakeTokener{tokenErr: errors.New("authorization header missing")},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "invalid token",
			tokener:      &fakeTokener{token: "t", userIDErr: errors.New("invalid token")},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			AuthMiddleware(tt.tokener)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedUser, gotUser)
		})
	}
}

func TestAdminKeyMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name         string
		configured   string
		supplied     string
		expectedCode int
	}{
		{name: "matching key", configured: "s3cret", supplied: "s3cret", expectedCode: http.StatusOK},
		{name: "wrong key", configured: "s3cret", supplied: "nope", expectedCode: http.StatusUnauthorized},
		{name: "missing header", configured: "s3cret", expectedCode: http.StatusUnauthorized},
		{name: "empty configured key rejects all", supplied: "", expectedCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/user/register", nil)
			if tt.supplied != "" {
				req.Header.Set("X-Admin-Key", tt.supplied)
			}

			AdminKeyMiddleware(tt.configured)(next).ServeHTTP(rr, req)
			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
