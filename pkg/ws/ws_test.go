package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server, room int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?room=" + strconv.Itoa(room)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastStaysInRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		room, _ := strconv.Atoi(r.URL.Query().Get("room"))
		_ = Upgrade(w, r, hub, uint(room))
	}))
	defer srv.Close()

	shop1 := dial(t, srv, 1)
	shop2 := dial(t, srv, 2)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(1, []byte(`{"event":"sale.posted"}`))

	shop1.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := shop1.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"sale.posted"}`, string(msg))

	shop2.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = shop2.ReadMessage()
	assert.Error(t, err)
}

func TestUnregisterOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = Upgrade(w, r, hub, 9)
	}))
	defer srv.Close()

	conn := dial(t, srv, 9)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCheckOriginRejectsForeignOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	SetCheckOrigin(func(r *http.Request) bool {
		return r.Header.Get("Origin") == "https://pos.example.com"
	})
	t.Cleanup(func() { SetCheckOrigin(func(*http.Request) bool { return true }) })

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = Upgrade(w, r, hub, 1)
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example.com"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://pos.example.com"}})
	require.NoError(t, err)
	conn.Close()
}
