package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nathoo/boneyard/engine"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/save"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// Commands runs the slash commands shared by the plain CLI and the TUI.
type Commands struct {
	Engine *engine.Engine
	Defs   *state.Defs
	Store  save.Store
	Log    *slog.Logger
	Trace  bool
}

// Handle runs one slash command and returns the lines to show. quit is
// true after /quit.
func (c *Commands) Handle(ctx context.Context, input string) (lines []string, quit bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, false
	}
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return c.save(ctx, arg), false
	case "/load":
		return c.load(ctx, arg), false
	case "/saves":
		return c.list(ctx), false
	case "/delete":
		return c.delete(ctx, arg), false
	case "/help":
		return Help(), false
	case "/state":
		return c.state(), false
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (c *Commands) logger() *slog.Logger {
	if c.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Log
}

func (c *Commands) save(ctx context.Context, name string) []string {
	if name == "" {
		name = save.DefaultName
	}
	data, err := save.Save(c.Engine.State, c.Defs)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := c.Store.Put(ctx, name, data); err != nil {
		c.logger().Error("save failed", "name", name, "error", err)
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	c.logger().Info("game saved", "name", name, "turn", c.Engine.State.Turn)
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

// Load restores the named save into the engine and returns the view
// from the restored position.
func (c *Commands) load(ctx context.Context, name string) []string {
	if name == "" {
		name = save.DefaultName
	}
	data, err := c.Store.Get(ctx, name)
	if errors.Is(err, save.ErrNotFound) {
		return []string{fmt.Sprintf("No save named %s. Type /saves to list them.", name)}
	}
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	if err := sd.Check(c.Defs); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	save.ApplySave(c.Engine.State, sd)
	c.Engine.RestoreRNG(c.Engine.State.RNGSeed, c.Engine.State.RNGPosition)
	c.logger().Info("game loaded", "name", name, "turn", sd.Turn)

	out := []string{fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn)}
	return append(out, c.Engine.Step("look").Output...)
}

func (c *Commands) list(ctx context.Context) []string {
	names, err := c.Store.List(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Listing saves failed: %v", err)}
	}
	if len(names) == 0 {
		return []string{"No saves yet."}
	}
	return []string{"Saves: " + strings.Join(names, ", ")}
}

func (c *Commands) delete(ctx context.Context, name string) []string {
	if name == "" {
		return []string{"Delete which save? Usage: /delete <name>"}
	}
	if err := c.Store.Delete(ctx, name); err != nil {
		if errors.Is(err, save.ErrNotFound) {
			return []string{fmt.Sprintf("No save named %s.", name)}
		}
		return []string{fmt.Sprintf("Delete failed: %v", err)}
	}
	return []string{fmt.Sprintf("Deleted %s.", name)}
}

func (c *Commands) state() []string {
	s := c.Engine.State
	out := []string{
		fmt.Sprintf("Turn: %d, year %d", s.Turn, s.Year),
		fmt.Sprintf("RNG: seed %d, position %d", s.RNGSeed, s.RNGPosition),
	}
	if p := s.Player(); p != nil {
		out = append(out, fmt.Sprintf("Player: %s at %s", p.ID, p.Pos))
		for _, h := range []items.Hand{items.LeftHand, items.RightHand} {
			held := "empty"
			if it := p.Wield.In(h); it != nil {
				held = it.ID
			}
			out = append(out, fmt.Sprintf("%s: %s", state.Capitalize(h.String()), held))
		}
	}
	var others []string
	for _, a := range s.Living() {
		if !a.Player {
			others = append(others, fmt.Sprintf("%s@%s", a.ID, a.Pos))
		}
	}
	if len(others) > 0 {
		out = append(out, "Actors: "+strings.Join(others, " "))
	}
	if len(s.Flags) > 0 {
		out = append(out, "Flags: "+formatMap(s.Flags))
	}
	if len(s.Counters) > 0 {
		out = append(out, "Counters: "+formatMap(s.Counters))
	}
	return out
}

func formatMap[V any](m map[string]V) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, m[k])
	}
	return strings.Join(parts, " ")
}

// FormatTrace renders the effects and events of a step.
func FormatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// Help lists the slash commands and the game verbs.
func Help() []string {
	return []string{
		"System:",
		"  /save [name]     Save game (default: quicksave)",
		"  /load [name]     Load game (default: quicksave)",
		"  /saves           List saved games",
		"  /delete <name>   Delete a saved game",
		"  /quit            Exit game",
		"  /help            Show this help",
		"  /state           Debug: dump current state",
		"  /trace           Toggle debug trace output",
		"",
		"Game commands:",
		"  look (l)                Describe your surroundings",
		"  examine <thing> (x)     Look closely at something",
		"  read <thing>            Read a gravestone or headstone",
		"  go <dir>                Move (or just type n/s/e/w/ne/nw/se/sw)",
		"  take/wield <item>       Pick something up into your active hand",
		"  drop <item>             Put something down",
		"  wear <garment>          Put on something you hold",
		"  swap                    Swap the items in your hands",
		"  switch                  Make your other hand the active one",
		"  dig                     Dig where you stand (needs a spade)",
		"  attack <someone>        Strike with your active hand",
		"  shoot <someone>         Loose a ranged weapon",
		"  talk <someone> [about <topic>]",
		"  status                  Check your body and clothing",
		"  inventory (i)           Check what you're holding",
		"  wait (z)                Let time pass",
		"  again (g)               Repeat your last command",
	}
}
