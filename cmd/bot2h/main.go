// bot2h is an IRC bot that talks to an IRC-to-HTTP gateway: it consumes the
// gateway's JSONL event stream, dispatches chat commands, and posts replies
// back over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bot2h",
	Short: "bot2h — IRC command bot for an IRC-to-HTTP gateway",
	Long:  "bot2h consumes a gateway event stream, dispatches chat commands, and posts replies back over HTTP.",
}

func main() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
