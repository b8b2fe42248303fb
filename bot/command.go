package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/TheTechRobo/bot2h/feed"
)

// MatchRule decides which incoming token invokes a command. Construct one
// with Exact, Prefix, or AnyOf.
type MatchRule struct {
	kind   matchKind
	token  string
	tokens []string
}

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
	matchAny
)

// Exact matches a token by string equality.
func Exact(token string) MatchRule {
	return MatchRule{kind: matchExact, token: token}
}

// Prefix matches any token that starts with the given prefix.
func Prefix(prefix string) MatchRule {
	return MatchRule{kind: matchPrefix, token: prefix}
}

// AnyOf matches a token equal to any of the given strings.
func AnyOf(tokens ...string) MatchRule {
	return MatchRule{kind: matchAny, tokens: tokens}
}

// Matches reports whether the rule matches the given token.
func (r MatchRule) Matches(token string) bool {
	switch r.kind {
	case matchExact:
		return token == r.token
	case matchPrefix:
		return strings.HasPrefix(token, r.token)
	case matchAny:
		for _, t := range r.tokens {
			if token == t {
				return true
			}
		}
	}
	return false
}

func (r MatchRule) String() string {
	switch r.kind {
	case matchPrefix:
		return r.token + "*"
	case matchAny:
		return "(" + strings.Join(r.tokens, "|") + ")"
	default:
		return r.token
	}
}

// Arity bounds the argument count of a positional command. Min arguments are
// required; arguments beyond Max are rejected unless Variadic is set, which
// removes the upper bound.
type Arity struct {
	Min      int
	Max      int
	Variadic bool
}

// check returns a user-facing error message, or "" if the count is in bounds.
func (a Arity) check(args []string, ran string) string {
	if len(args) < a.Min {
		return fmt.Sprintf("Not enough arguments for command %s.", ran)
	}
	if !a.Variadic && len(args) > a.Max {
		return fmt.Sprintf("Too many arguments for command %s.", ran)
	}
	return ""
}

// Request carries the per-invocation input shared by every binding mode.
type Request struct {
	User feed.User
	Ran  string   // the token that matched the rule
	Args []string // whitespace-split remainder of the line
}

// Handler signatures, one per binding mode. The writer sends each reply
// before returning, so a slow gateway stalls the handler, not the bot.
type (
	RawFunc        func(ctx context.Context, req *Request, text string, w *ReplyWriter) error
	FlagsFunc      func(ctx context.Context, req *Request, fs *pflag.FlagSet, w *ReplyWriter) error
	PositionalFunc func(ctx context.Context, req *Request, args []string, w *ReplyWriter) error
)

type bindMode int

const (
	modeNone bindMode = iota
	modeRaw
	modeFlags
	modePositional
)

// Command is one registered handler. Configure it with exactly one binding
// mode (Raw, Flags, or Positional) and optionally a required-mode set.
// Commands are immutable once the bot is running.
type Command struct {
	rule  MatchRule
	modes []string

	mode      bindMode
	rawFn     RawFunc
	flagsName string
	declare   func(*pflag.FlagSet)
	flagsFn   FlagsFunc
	arity     Arity
	posFn     PositionalFunc
}

// Modes restricts the command to users holding at least one of the given
// single-character mode flags.
func (c *Command) Modes(modes ...string) *Command {
	c.modes = append(c.modes, modes...)
	return c
}

// Raw binds the command to a handler that receives the argument text
// rejoined into a single string, unvalidated.
func (c *Command) Raw(fn RawFunc) *Command {
	c.setMode(modeRaw, fn == nil)
	c.rawFn = fn
	return c
}

// Flags binds the command to a flag-parsing handler. declare is called with
// a fresh FlagSet on every invocation to define the accepted flags; the
// argument text is split with shell quoting rules before parsing. A parse
// failure is answered with the usage text, never passed to the handler.
func (c *Command) Flags(name string, declare func(*pflag.FlagSet), fn FlagsFunc) *Command {
	c.setMode(modeFlags, fn == nil)
	c.flagsName = name
	c.declare = declare
	c.flagsFn = fn
	return c
}

// Positional binds the command to a handler taking the split arguments
// directly, with the count checked against the given arity.
func (c *Command) Positional(arity Arity, fn PositionalFunc) *Command {
	c.setMode(modePositional, fn == nil)
	c.arity = arity
	c.posFn = fn
	return c
}

// setMode enforces that a command gets exactly one binding mode. Both
// misuses are programmer errors, so they fail at registration, not dispatch.
func (c *Command) setMode(m bindMode, nilFn bool) {
	if c.mode != modeNone {
		panic(fmt.Sprintf("bot2h: command %s: binding mode already configured", c.rule))
	}
	if nilFn {
		panic(fmt.Sprintf("bot2h: command %s: nil handler", c.rule))
	}
	c.mode = m
}
