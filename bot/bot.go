// Package bot implements the command framework for an IRC-to-HTTP gateway:
// a registry of handlers keyed by match rules, three argument-binding modes,
// a permission gate, and a run loop that pulls the gateway feed and
// dispatches lines through a bounded worker pool.
package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TheTechRobo/bot2h/feed"
)

// Config holds bot construction parameters.
type Config struct {
	// FeedURL is the gateway stream endpoint. Ignored when Source is set.
	FeedURL string
	// PostURL is the gateway send endpoint. Ignored when Sender is set.
	PostURL string
	// MaxWorkers caps concurrent line handling. 1 processes lines strictly
	// in sequence; values <= 0 remove the cap entirely.
	MaxWorkers int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Source overrides the default HTTP feed source.
	Source feed.Source
	// Sender overrides the default HTTP sender.
	Sender Sender
}

// Bot owns the command registry and the ingestion/dispatch loop.
// Register commands before calling Run; the registry is read without
// locking once the loop is running.
type Bot struct {
	source     feed.Source
	sender     Sender
	logger     *zap.Logger
	maxWorkers int
	commands   []*Command
}

// New creates a Bot from the given config.
func New(cfg Config) *Bot {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	source := cfg.Source
	if source == nil {
		source = feed.NewHTTPSource(cfg.FeedURL, logger)
	}
	sender := cfg.Sender
	if sender == nil {
		sender = NewHTTPSender(cfg.PostURL, logger)
	}
	return &Bot{
		source:     source,
		sender:     sender,
		logger:     logger,
		maxWorkers: cfg.MaxWorkers,
	}
}

// Command registers a new command under the given match rule and returns it
// for configuration. Registration order is significant: the first matching
// rule wins at dispatch time.
func (b *Bot) Command(rule MatchRule) *Command {
	c := &Command{rule: rule}
	b.commands = append(b.commands, c)
	return c
}

// lookup returns the first registered command whose rule matches the token,
// or nil.
func (b *Bot) lookup(token string) *Command {
	for _, c := range b.commands {
		if c.rule.Matches(token) {
			return c
		}
	}
	return nil
}

// Send posts a message to the gateway outside of any command invocation.
func (b *Bot) Send(ctx context.Context, text string) error {
	return b.sender.Send(ctx, text)
}

// Run pulls the feed and dispatches each line until ctx is cancelled or the
// gateway rejects the feed with a client error. Transient feed failures are
// absorbed by the source; handler failures are absorbed per line. When the
// worker pool is full, pulling the next line blocks until a slot frees up.
func (b *Bot) Run(ctx context.Context) error {
	for _, c := range b.commands {
		if c.mode == modeNone {
			return fmt.Errorf("command %s has no binding mode configured", c.rule)
		}
	}

	events := make(chan feed.Event)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(events)
		return b.source.Run(ctx, events)
	})

	g.Go(func() error {
		pool := new(errgroup.Group)
		if b.maxWorkers > 0 {
			pool.SetLimit(b.maxWorkers)
		}
		for ev := range events {
			ev := ev
			pool.Go(func() error {
				b.handleLine(ctx, ev)
				return nil
			})
		}
		return pool.Wait()
	})

	return g.Wait()
}
