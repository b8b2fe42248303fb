package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPSource streams events from a gateway endpoint whose body is an
// unbounded sequence of newline-delimited JSON objects.
type HTTPSource struct {
	URL    string
	Client *http.Client
	Logger *zap.Logger

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewHTTPSource creates an HTTPSource for the given feed URL. The client has
// no overall timeout: the response body is a stream that never ends.
func NewHTTPSource(url string, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{},
		Logger: logger,
		sleep:  sleepCtx,
	}
}

// Run connects to the feed and emits decoded events on out until ctx is
// cancelled or the gateway answers with a client-error status. Any other
// failure (network error, decode error, 5xx, status 400) drops the
// connection, sleeps min(64, 2^attempt) seconds, and reconnects. The attempt
// counter never resets while the stream is open.
func (s *HTTPSource) Run(ctx context.Context, out chan<- Event) error {
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
		s.Logger.Warn("feed connection lost, retrying",
			zap.Error(err),
			zap.Duration("sleep", d))
		if err := s.sleep(ctx, d); err != nil {
			return err
		}
		tries++
	}
}

// streamOnce opens one GET and emits events until the connection fails.
// It always returns a non-nil error: the feed has no normal end.
func (s *HTTPSource) streamOnce(ctx context.Context, out chan<- Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return fmt.Errorf("building feed request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("opening feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusCodeError{Code: resp.StatusCode}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("decoding feed line: %w", err)
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading feed: %w", err)
	}
	return io.EOF
}
