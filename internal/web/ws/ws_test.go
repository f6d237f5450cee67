package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/battle-royale/internal/web/sse"
	"github.com/mcoot/battle-royale/internal/testutil"
)

func dial(t *testing.T, hub *sse.Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(w, r, hub, "viewer", testutil.NopLogger())
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestServeStreamsHubMessages(t *testing.T) {
	hub := sse.NewHub("match-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	conn := dial(t, hub)

	connected := readFrame(t, conn)
	assert.Equal(t, "connected", connected["event"])

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	hub.Broadcast(sse.Message{
		Event: sse.EventState,
		HTML:  "<div>ignored</div>",
		Data:  sse.StateData{MatchID: "match-1", State: "running", Round: 3, Alive: 2},
	})

	frame := readFrame(t, conn)
	assert.Equal(t, sse.EventState, frame["event"])
	data, ok := frame["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "running", data["state"])
	assert.Equal(t, float64(3), data["round"])
	assert.NotEmpty(t, frame["time"])
}

func TestServeClosesWhenHubCloses(t *testing.T) {
	hub := sse.NewHub("match-1", testutil.NopLogger())
	go hub.Run()

	conn := dial(t, hub)
	readFrame(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestServeUnregistersOnDisconnect(t *testing.T) {
	hub := sse.NewHub("match-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	conn := dial(t, hub)
	readFrame(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestServeRejectsPlainHTTP(t *testing.T) {
	hub := sse.NewHub("match-1", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/matches/match-1/ws", nil)

	Serve(rec, req, hub, "viewer", testutil.NopLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, hub.ClientCount())
}
