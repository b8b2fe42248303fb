package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSSource streams events from a gateway websocket endpoint. Each text
// message carries one JSON event. Classification and backoff match
// HTTPSource: a rejected handshake with a client-error status terminates the
// stream, everything else reconnects.
type WSSource struct {
	URL    string
	Dialer *websocket.Dialer
	Logger *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewWSSource creates a WSSource for the given ws:// or wss:// URL.
func NewWSSource(url string, logger *zap.Logger) *WSSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSSource{
		URL:    url,
		Dialer: websocket.DefaultDialer,
		Logger: logger,
		sleep:  sleepCtx,
	}
}

// Run implements Source.
func (s *WSSource) Run(ctx context.Context, out chan<- Event) error {
	tries := 0
	for {
		err := s.streamOnce(ctx, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var sce *StatusCodeError
		if errors.As(err, &sce) && sce.ClientError() {
			return err
		}
		d := backoff(tries)
		s.Logger.Warn("feed websocket lost, retrying",
			zap.Error(err),
			zap.Duration("sleep", d))
		if err := s.sleep(ctx, d); err != nil {
			return err
		}
		tries++
	}
}

func (s *WSSource) streamOnce(ctx context.Context, out chan<- Event) error {
	conn, resp, err := s.Dialer.DialContext(ctx, s.URL, nil)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
			return &StatusCodeError{Code: resp.StatusCode}
		}
		return fmt.Errorf("dialing feed: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("reading feed: %w", err)
		}
		if len(data) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("decoding feed message: %w", err)
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
