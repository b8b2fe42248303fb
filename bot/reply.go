package bot

import (
	"fmt"

	"github.com/TheTechRobo/bot2h/irc"
)

// reply is one unit of handler output before normalization.
type reply struct {
	to        string
	text      string
	action    bool
	toInvoker bool
}

// ReplyWriter is how a handler talks back to the channel. Every method
// normalizes the reply and sends it before returning, so replies within one
// invocation arrive in order and a failed send stops the handler with the
// send error.
type ReplyWriter struct {
	send func(r reply) error
}

// Say replies to the invoking user ("nick: text").
func (w *ReplyWriter) Say(text string) error {
	return w.send(reply{text: text, toInvoker: true})
}

// Sayf is Say with formatting.
func (w *ReplyWriter) Sayf(format string, a ...any) error {
	return w.Say(fmt.Sprintf(format, a...))
}

// SayTo replies addressed to the given nick. An empty nick sends the text
// unaddressed, same as Announce.
func (w *ReplyWriter) SayTo(nick, text string) error {
	return w.send(reply{to: nick, text: text})
}

// Announce sends the text without addressing anyone.
func (w *ReplyWriter) Announce(text string) error {
	return w.send(reply{text: text})
}

// Emote sends the text as a CTCP ACTION ("/me" style message).
func (w *ReplyWriter) Emote(text string) error {
	return w.send(reply{text: text, action: true})
}

// render turns a reply into the wire text posted to the gateway.
func render(r reply, invoker string) string {
	if r.action {
		return irc.Action(r.text)
	}
	to := r.to
	if r.toInvoker {
		to = invoker
	}
	if to == "" {
		return r.text
	}
	return to + ": " + r.text
}
