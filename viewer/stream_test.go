package viewer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStream_URL(t *testing.T) {
	tests := []struct {
		server  string
		want    string
		wantErr bool
	}{
		{"http://localhost:3000", "ws://localhost:3000/ws", false},
		{"https://wall.example/", "wss://wall.example/ws", false},
		{"https://wall.example/api", "wss://wall.example/api/ws", false},
		{"ftp://wall.example", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			s, err := NewStream(tt.server, zerolog.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.URL())
		})
	}
}

// wsServer accepts connections, checks for the initial sync request and
// answers with one batched frame before hanging up.
func wsServer(t *testing.T, connections *atomic.Int32) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connections.Add(1)

		var first models.Event
		if err := conn.ReadJSON(&first); err != nil || first.Event != models.EventSyncRequest {
			return
		}
		frame := `{"event":"sync:response","data":{"messages":[]}}` + "\n" +
			`not json` + "\n" +
			`{"event":"message:deleted","data":{"id":"x"}}`
		_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStream_RunDeliversAndReconnects(t *testing.T) {
	var connections atomic.Int32
	srv := wsServer(t, &connections)

	s, err := NewStream(srv.URL, zerolog.Nop())
	require.NoError(t, err)
	s.minBackoff = 10 * time.Millisecond
	s.maxBackoff = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan models.Event, 16)
	done := make(chan struct{})
	go func() {
		s.Run(ctx, events)
		close(done)
	}()

	first := <-events
	second := <-events
	assert.Equal(t, models.EventSyncResponse, first.Event)
	assert.Equal(t, models.EventMessageDeleted, second.Event)

	assert.Eventually(t, func() bool { return connections.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStream_BacksOffWhileDown(t *testing.T) {
	s, err := NewStream("http://127.0.0.1:1", zerolog.Nop())
	require.NoError(t, err)
	s.minBackoff = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	s.Run(ctx, make(chan models.Event))
	assert.Less(t, time.Since(start), time.Second)
}
