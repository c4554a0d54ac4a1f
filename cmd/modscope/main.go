package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errFailed reports that at least one input could not be parsed. The
// details have already been written to stderr.
var errFailed = errors.New("one or more modules failed to parse")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modscope",
		Short:         "Inspect ProTracker MOD and FastTracker II XM modules",
		Long:          `modscope reads tracker modules and prints their song metadata, order table and pattern data`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("config", "", "path to "+configFileName+" (default: search upwards from the working directory)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	root.AddCommand(newInfoCmd())
	root.AddCommand(newPatternsCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of f, or 0 when it is not a terminal
func terminalWidth(f *os.File) int {
	if !isTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
