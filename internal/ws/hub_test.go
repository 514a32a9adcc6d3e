package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestClient connects a real websocket client to a test server backed by
// the hub.
func dialTestClient(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, "test-user")
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestHubRelaysToAllClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	sender := dialTestClient(t, hub)
	receiver := dialTestClient(t, hub)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(`{"text":"hi"}`)))

	receiver.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := receiver.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(frame))

	// The sender hears its own frame too: broadcast-to-all, no routing.
	sender.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err = sender.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(frame))
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	leaver := dialTestClient(t, hub)
	stayer := dialTestClient(t, hub)

	leaver.Close()

	// Frames after the disconnect still reach the remaining client.
	require.NoError(t, stayer.WriteMessage(websocket.TextMessage, []byte("still here")))

	stayer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := stayer.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "still here", string(frame))
}
