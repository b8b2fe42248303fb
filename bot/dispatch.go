package bot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/TheTechRobo/bot2h/feed"
)

// handleLine processes one gateway event end to end: resolve the command
// token, gate, bind, run the handler, and send its replies. Any failure is
// contained here; a broken handler never takes down the ingestion loop.
func (b *Bot) handleLine(ctx context.Context, ev feed.Event) {
	if ev.Command != "PRIVMSG" || ev.User == nil {
		return
	}
	fields := strings.Split(ev.Message, " ")
	c := b.lookup(fields[0])
	if c == nil {
		return
	}
	req := &Request{User: *ev.User, Ran: fields[0], Args: fields[1:]}
	w := &ReplyWriter{send: func(r reply) error {
		return b.sender.Send(ctx, render(r, req.User.Nick))
	}}

	b.logger.Debug("running command handler",
		zap.String("command", req.Ran),
		zap.String("nick", req.User.Nick))

	if err := c.invoke(ctx, req, w); err != nil {
		b.logger.Error("command handler failed",
			zap.String("command", req.Ran),
			zap.Error(err))
		failure := req.User.Nick + ": An error occured when processing the command."
		if serr := b.sender.Send(ctx, failure); serr != nil {
			b.logger.Error("could not report command failure", zap.Error(serr))
		}
	}
}

// invoke runs the permission gate, the binder for the configured mode, and
// the handler. Denials and argument errors are normal replies, not errors;
// the returned error means the handler (or a send) genuinely failed.
func (c *Command) invoke(ctx context.Context, req *Request, w *ReplyWriter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	if len(c.modes) > 0 && !req.User.HasAnyMode(c.modes...) {
		return w.Sayf(
			"You don't have the required permissions to use this command. (one of (%s) is required)",
			strings.Join(c.modes, ", "))
	}

	switch c.mode {
	case modeRaw:
		return c.rawFn(ctx, req, strings.Join(req.Args, " "), w)
	case modeFlags:
		return c.invokeFlags(ctx, req, w)
	case modePositional:
		if msg := c.arity.check(req.Args, req.Ran); msg != "" {
			return w.Say(msg)
		}
		return c.posFn(ctx, req, req.Args, w)
	default:
		return fmt.Errorf("command %s has no binding mode", c.rule)
	}
}

func (c *Command) invokeFlags(ctx context.Context, req *Request, w *ReplyWriter) error {
	fs := pflag.NewFlagSet(c.flagsName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {} // usage goes to the channel, not stderr
	if c.declare != nil {
		c.declare(fs)
	}

	words, err := shlex.Split(strings.Join(req.Args, " "))
	if err != nil {
		return c.replyUsage(fs, w, err.Error())
	}
	if err := fs.Parse(words); err != nil {
		return c.replyUsage(fs, w, err.Error())
	}
	return c.flagsFn(ctx, req, fs, w)
}

// replyUsage answers a parse failure with the usage summary followed by the
// error message, one line per reply.
func (c *Command) replyUsage(fs *pflag.FlagSet, w *ReplyWriter, msg string) error {
	if err := w.Say("usage: " + c.flagsName + " [flags]"); err != nil {
		return err
	}
	usages := strings.TrimRight(fs.FlagUsages(), "\n")
	if usages != "" {
		for _, line := range strings.Split(usages, "\n") {
			if err := w.Say(strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}
	return w.Say(strings.TrimSpace(msg))
}
