package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathoo/boneyard/cli"
	"github.com/nathoo/boneyard/config"
	"github.com/nathoo/boneyard/engine"
	"github.com/nathoo/boneyard/engine/save"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/games"
	"github.com/nathoo/boneyard/loader"
	"github.com/nathoo/boneyard/tui"
)

func newPlayCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [game_directory]",
		Short: "Play a game (the bundled boneyard when no directory is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return play(cmd, *cfg, dir)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&cfg.Plain, "plain", cfg.Plain, "use the plain line-by-line interface")
	f.StringVar(&cfg.Script, "script", cfg.Script, "play commands from a file (implies --plain)")
	f.BoolVar(&cfg.Trace, "trace", cfg.Trace, "show effects and events after each command")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 picks one from the clock)")
	f.StringVar(&cfg.Store, "store", cfg.Store, "save store: file, redis or sqlite")
	f.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "directory for file saves")
	f.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis store")
	f.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "database file for the sqlite store")
	return cmd
}

func play(cmd *cobra.Command, cfg config.Config, dir string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	defs, err := loadGame(dir, logger)
	if err != nil {
		return fmt.Errorf("loading game: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting game", "title", defs.Game.Title, "seed", seed, "store", cfg.Store)

	eng, err := engine.New(defs, seed, logger)
	if err != nil {
		return err
	}

	store, closeStore, err := cfg.OpenStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("opening save store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("closing save store", "error", err)
		}
	}()

	out := cmd.OutOrStdout()

	// Script mode: read the file, force plain, echo commands.
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := newPlainCLI(out, eng, defs, store, logger, cfg.Trace)
		c.In = f
		c.EchoInput = true
		c.Run(ctx)
		return nil
	}

	// Use the plain CLI if asked or when stdout is not a terminal.
	if cfg.Plain || !isTerminal() {
		c := newPlainCLI(out, eng, defs, store, logger, cfg.Trace)
		c.In = cmd.InOrStdin()
		c.Run(ctx)
		return nil
	}

	return tui.Run(ctx, eng, defs, store, logger)
}

func newPlainCLI(out io.Writer, eng *engine.Engine, defs *state.Defs, store save.Store, logger *slog.Logger, trace bool) *cli.CLI {
	c := cli.New(eng, defs, store, logger)
	c.Out = out
	c.Commands.Trace = trace
	return c
}

// loadGame reads content from dir, or the bundled game when dir is empty.
func loadGame(dir string, logger *slog.Logger) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadFS(games.FS, games.Default, logger)
	}
	return loader.Load(dir, logger)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
