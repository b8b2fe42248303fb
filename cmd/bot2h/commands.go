package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/TheTechRobo/bot2h/bot"
	"github.com/TheTechRobo/bot2h/internal/seen"
)

// registerCommands wires up the stock command set. tracker may be nil when
// redis is not configured.
func registerCommands(b *bot.Bot, tracker *seen.Store) {
	b.Command(bot.Exact("!help")).Positional(bot.Arity{}, func(ctx context.Context, req *bot.Request, args []string, w *bot.ReplyWriter) error {
		return w.Say("commands: !help, !echo <text>, !slap <nick...>, !roll [--sides N] [--count N], !seen <nick>, !say <text> (ops)")
	})

	b.Command(bot.Exact("!echo")).Raw(func(ctx context.Context, req *bot.Request, text string, w *bot.ReplyWriter) error {
		return w.Say(text)
	})

	b.Command(bot.Exact("!say")).Modes("o").Raw(func(ctx context.Context, req *bot.Request, text string, w *bot.ReplyWriter) error {
		return w.Announce(text)
	})

	b.Command(bot.Exact("!slap")).Positional(bot.Arity{Min: 1, Variadic: true}, func(ctx context.Context, req *bot.Request, args []string, w *bot.ReplyWriter) error {
		return w.Emote(fmt.Sprintf("slaps %s with a large trout", strings.Join(args, " ")))
	})

	b.Command(bot.AnyOf("!roll", "!dice")).Flags("roll", func(fs *pflag.FlagSet) {
		fs.Int("sides", 6, "number of sides per die")
		fs.Int("count", 1, "number of dice to roll")
	}, func(ctx context.Context, req *bot.Request, fs *pflag.FlagSet, w *bot.ReplyWriter) error {
		sides, _ := fs.GetInt("sides")
		count, _ := fs.GetInt("count")
		if sides < 1 || count < 1 || count > 20 {
			return w.Say("roll wants 1-20 dice with at least one side each.")
		}
		rolls := make([]string, count)
		for i := range rolls {
			rolls[i] = fmt.Sprint(rand.Intn(sides) + 1)
		}
		return w.Sayf("rolled %s", strings.Join(rolls, ", "))
	})

	b.Command(bot.Exact("!seen")).Positional(bot.Arity{Min: 1, Max: 1}, func(ctx context.Context, req *bot.Request, args []string, w *bot.ReplyWriter) error {
		if tracker == nil {
			return w.Say("seen tracking is not enabled.")
		}
		when, ok, err := tracker.LastSeen(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return w.Sayf("I have never seen %s.", args[0])
		}
		return w.Sayf("%s was last seen %s ago.", args[0], time.Since(when).Round(time.Second))
	})

	if tracker != nil {
		// Matches every remaining line; must stay the last registration.
		b.Command(bot.Prefix("")).Positional(bot.Arity{Variadic: true}, func(ctx context.Context, req *bot.Request, args []string, w *bot.ReplyWriter) error {
			tracker.Touch(ctx, req.User.Nick)
			return nil
		})
	}
}
