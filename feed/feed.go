// Package feed consumes the line-delimited JSON event stream produced by an
// IRC-to-HTTP gateway. It decodes gateway events and keeps the connection
// alive across transient failures.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Event is one decoded unit from the gateway feed. Only "PRIVMSG" events
// carry a User and Message; all other command kinds are passed through and
// ignored downstream, so new gateway event kinds are forward-compatible.
type Event struct {
	Command string `json:"command"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// User is a per-event snapshot of the sender. It is rebuilt from every event
// and never persisted.
type User struct {
	Nick     string `json:"nick"`
	Hostmask string `json:"hostmask"`
	Account  string `json:"account"`
	Modes    string `json:"modes"`
}

// HasAnyMode reports whether the user holds at least one of the given
// single-character mode flags.
func (u User) HasAnyMode(modes ...string) bool {
	for _, m := range modes {
		if m != "" && strings.Contains(u.Modes, m) {
			return true
		}
	}
	return false
}

// Source produces an unbounded stream of gateway events on out. Run blocks
// until the context is cancelled or the gateway answers with a client error;
// transient failures are retried internally and never surface. The stream is
// not restartable: call Run once per Source.
type Source interface {
	Run(ctx context.Context, out chan<- Event) error
}

// StatusCodeError reports a non-200 response from the gateway.
type StatusCodeError struct {
	Code int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("gateway returned status %d", e.Code)
}

// ClientError reports whether the status is a permanent client error.
// The range is exclusive on both ends: 400 and 500 themselves are treated
// as transient.
func (e *StatusCodeError) ClientError() bool {
	return e.Code > 400 && e.Code < 500
}

// backoff returns the reconnect delay for the given attempt number,
// capped at 64 seconds.
func backoff(attempt int) time.Duration {
	if attempt > 6 {
		return 64 * time.Second
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

// sleepCtx sleeps for d or until ctx is cancelled.
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
