package feed

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

	"go.uber.org/zap"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSSource_StreamsEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"PRIVMSG","user":{"nick":"alice"},"message":"!hi"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"PART"}`))
		// Keep the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	s := NewWSSource(wsURL(srv), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan Event)
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx, out) }()

	var got []Event
	for len(got) < 2 {
		select {
		case ev := <-out:
			got = append(got, ev)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	cancel()
	<-errc

	assert.Equal(t, "!hi", got[0].Message)
	assert.Equal(t, "alice", got[0].User.Nick)
	assert.Equal(t, "PART", got[1].Command)
}

func TestWSSource_RejectedHandshakeClientErrorTerminates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewWSSource(wsURL(srv), zap.NewNop())
	s.sleep = func(ctx context.Context, d time.Duration) error {
		t.Error("slept on a client error")
		return nil
	}

	err := s.Run(context.Background(), make(chan Event))

	var sce *StatusCodeError
	require.ErrorAs(t, err, &sce)
	assert.Equal(t, http.StatusForbidden, sce.Code)
}
