package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/cipherhq/echohub-server/internal/models"
	"github.com/cipherhq/echohub-server/internal/services"
)

func TestFetchMessagesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := []models.Message{
		{Sender: "u1", Receiver: "u2", Text: "hi", Timestamp: 100, Chat: "c1"},
		{Sender: "u2", Receiver: "u1", Text: "hey", Timestamp: 200, Chat: "c1"},
	}

	tests := []struct {
		name         string
		reqBody      FetchMessagesRequest
		mockSetup    func(m *MockMessageFetcher)
		expectedCode int
		expectedErr  string
		expectedChat string
		expectedLen  int
	}{
		{
			name:    "success",
			reqBody: FetchMessagesRequest{UserID: "u1", Contact: "u2"},
			mockSetup: func(m *MockMessageFetcher) {
				m.EXPECT().
					FetchChat(gomock.Any(), "u1", "u2").
					Return("c1", msgs, nil)
			},
			expectedCode: 200,
			expectedChat: "c1",
			expectedLen:  2,
		},
		{
			name:    "no chat yet",
			reqBody: FetchMessagesRequest{UserID: "u1", Contact: "u3"},
			mockSetup: func(m *MockMessageFetcher) {
				m.EXPECT().
					FetchChat(gomock.Any(), "u1", "u3").
					Return("", nil, nil)
			},
			expectedCode: 200,
			expectedChat: "",
			expectedLen:  0,
		},
		{
			name:    "linked chat vanished",
			reqBody: FetchMessagesRequest{UserID: "u1", Contact: "u4"},
			mockSetup: func(m *MockMessageFetcher) {
				m.EXPECT().
					FetchChat(gomock.Any(), "u1", "u4").
					Return("", nil, services.ErrChatNotFound)
			},
			expectedCode: 404,
			expectedErr:  "Chat not found",
		},
		{
			name:         "missing contact",
			reqBody:      FetchMessagesRequest{UserID: "u1"},
			expectedCode: 400,
			expectedErr:  "Userid or contact missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockMessageFetcher(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewFetchMessagesHandler(mockSvc)

			bodyBytes, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPost, "/messages/fetch", bytes.NewBuffer(bodyBytes))

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedErr != "" {
				var resp FetchMessagesErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
				return
			}

			var resp FetchMessagesResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedChat, resp.Chat)
			assert.Len(t, resp.Data, tt.expectedLen)
		})
	}
}
