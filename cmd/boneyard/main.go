// Boneyard is a deterministic, turn-based skirmish sandbox played in the
// terminal. Usage: boneyard play [game_directory]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/boneyard/config"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. Settings come from BONEYARD_*
// variables first, then from flags.
func newRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	root := &cobra.Command{
		Use:           "boneyard",
		Short:         "A turn-based skirmish among the graves",
		Long:          `Boneyard loads a Lua-authored arena and lets you dig, fight and talk your way through it.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(newPlayCmd(&cfg))
	root.AddCommand(newRollCmd())
	root.AddCommand(newRangeCmd())
	root.AddCommand(newBodyCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
