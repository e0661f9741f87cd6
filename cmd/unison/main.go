package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unison-ui/unison/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌┐┌┬┌─┐┌─┐┌┐┌
  ║ ║││││└─┐│ ││││
  ╚═╝┘└┘┴└─┘└─┘┘└┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "unison",
		Short: "The server-driven UI framework for Go",
		Long: `Unison builds interactive web applications in pure Go.

Components run on the server with fine-grained reactive state;
browsers receive patches over a WebSocket and send events back.

  • Setup-once components with reactive refs and computeds
  • Server-side rendering with live takeover
  • Binary patch protocol over WebSocket
  • Rebuild-on-change development loop`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		createCmd(),
		devCmd(),
		buildCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
