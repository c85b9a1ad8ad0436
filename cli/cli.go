// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the Boneyard engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nathoo/boneyard/engine"
	"github.com/nathoo/boneyard/engine/save"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// CLI handles plain line-by-line interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
	Commands  *Commands
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine and save store.
func New(eng *engine.Engine, defs *state.Defs, store save.Store, logger *slog.Logger) *CLI {
	return &CLI{
		Engine:   eng,
		Defs:     defs,
		In:       os.Stdin,
		Out:      os.Stdout,
		Commands: &Commands{Engine: eng, Defs: defs, Store: store, Log: logger},
	}
}

// Run starts the game loop. It shows the intro and the starting view,
// then loops: prompt, input, dispatch, output. It returns when input
// ends, after /quit, or when ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printResult(c.Engine.Step("look"))

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Comment lines in script files.
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			lines, quit := c.Commands.Handle(ctx, input)
			for _, line := range lines {
				c.printSystem(line)
			}
			if quit {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)
		if c.Commands.Trace {
			for _, line := range FormatTrace(result) {
				c.printLine(line)
			}
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
