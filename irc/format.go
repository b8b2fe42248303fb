// Package irc holds IRC text-formatting data: formatting toggles, colour
// codes, and the CTCP ACTION wrapper. Codes follow
// https://modern.ircdocs.horse/formatting and are best effort; clients and
// channels may ignore them.
package irc

import "fmt"

// Formatting toggles. Each code flips the attribute on or off, except Reset
// which clears everything.
const (
	Bold          = "\x02"
	Italic        = "\x1D"
	Underline     = "\x1F"
	Strikethrough = "\x1E"
	Monospace     = "\x11"
	ReverseColour = "\x16" // poorly supported
	Reset         = "\x0F"
)

// Two-digit colour values for MakeColour. Default is not universally
// supported.
const (
	White      = "00"
	Black      = "01"
	Blue       = "02"
	Green      = "03"
	Red        = "04"
	Brown      = "05"
	Magenta    = "06"
	Orange     = "07"
	Yellow     = "08"
	LightGreen = "09"
	Cyan       = "10"
	LightCyan  = "11"
	LightBlue  = "12"
	Pink       = "13"
	Grey       = "14"
	LightGrey  = "15"
	Default    = "99"
)

// MakeColour builds a colour prefix for fg over bg. Pass bg == "" to keep
// the background. With no background a bold-unbold pair is appended to keep
// a following comma from being read as part of the colour code; use
// MakeColourUnescaped when that costs too many bytes.
func MakeColour(fg, bg string) (string, error) {
	return makeColour(fg, bg, true)
}

// MakeColourUnescaped is MakeColour without the trailing bold-unbold pair.
func MakeColourUnescaped(fg, bg string) (string, error) {
	return makeColour(fg, bg, false)
}

func makeColour(fg, bg string, escape bool) (string, error) {
	// Single-digit values are allowed by the protocol but ambiguous.
	if len(fg) != 2 || (bg != "" && len(bg) != 2) {
		return "", fmt.Errorf("colour values must be two digits")
	}
	tail := ""
	if bg != "" {
		bg = "," + bg
	} else if escape {
		tail = Bold + Bold
	}
	return "\x03" + fg + bg + tail, nil
}

// Action wraps text as a CTCP ACTION ("/me" message).
func Action(text string) string {
	return "\x01ACTION " + text + "\x01"
}
