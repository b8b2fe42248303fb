package bot

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sender posts one reply to the gateway. Implementations must be safe for
// concurrent use: each in-flight invocation sends through the same Sender.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// MessageSendError reports a reply the gateway rejected with a non-200
// status after all retries were exhausted.
type MessageSendError struct {
	Code int
}

func (e *MessageSendError) Error() string {
	return fmt.Sprintf("message rejected with status %d", e.Code)
}

// sendAttempts is the total attempt budget per message.
const sendAttempts = 5

// HTTPSender posts reply text as the request body to the gateway send URL.
// Failed sends are retried with 1.5^attempt seconds between attempts.
type HTTPSender struct {
	URL    string
	Client *http.Client
	Logger *zap.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewHTTPSender creates an HTTPSender. The underlying client is created here
// and shared by every send for the lifetime of the sender.
func NewHTTPSender(url string, logger *zap.Logger) *HTTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSender{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		Logger: logger,
		sleep:  sleepCtx,
	}
}

// Send implements Sender. It returns nil once the gateway accepts the
// message, or the last failure after the attempt budget is spent.
func (s *HTTPSender) Send(ctx context.Context, text string) error {
	for tries := 0; ; tries++ {
		err := s.post(ctx, text)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		if tries >= sendAttempts-1 {
			s.Logger.Error("giving up on message",
				zap.Int("attempts", tries+1),
				zap.Error(err))
			return err
		}
		d := time.Duration(math.Pow(1.5, float64(tries)) * float64(time.Second))
		s.Logger.Warn("send failed, retrying",
			zap.Duration("sleep", d),
			zap.Error(err))
		if serr := s.sleep(ctx, d); serr != nil {
			return err
		}
	}
}

func (s *HTTPSender) post(ctx context.Context, text string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("building send request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("posting message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &MessageSendError{Code: resp.StatusCode}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
