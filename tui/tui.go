package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/boneyard/cli"
	"github.com/nathoo/boneyard/engine"
	"github.com/nathoo/boneyard/engine/save"
	"github.com/nathoo/boneyard/engine/state"
)

const (
	historySize = 100
	minWrap     = 10
	// chromeRows is the status bar plus the prompt line.
	chromeRows = 2
)

// entry is one unstyled transcript line. Styling happens at render time
// so a resize can re-wrap everything.
type entry struct {
	text   string
	kind   lineKind
	echo   bool
	system bool
}

// Model is the Bubble Tea model for the Boneyard TUI.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	defs   *state.Defs
	cmds   *cli.Commands

	pane    viewport.Model
	prompt  textinput.Model
	history *History

	transcript []entry

	width, height int
	ready         bool
	quitting      bool
	lastCmd       string
}

// outputMsg carries a batch of lines into Update.
type outputMsg struct {
	echo   string
	lines  []string
	system bool
}

// New creates a TUI model wired to the given engine and save store.
func New(ctx context.Context, eng *engine.Engine, defs *state.Defs, store save.Store, logger *slog.Logger) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = styleInputPrompt
	in.CharLimit = 256
	in.Focus()

	return Model{
		ctx:     ctx,
		engine:  eng,
		defs:    defs,
		cmds:    &cli.Commands{Engine: eng, Defs: defs, Store: store, Log: logger},
		prompt:  in,
		history: NewHistory(historySize),
	}
}

// Run starts the Bubble Tea program. Cancelling ctx ends it.
func Run(ctx context.Context, eng *engine.Engine, defs *state.Defs, store save.Store, logger *slog.Logger) error {
	p := tea.NewProgram(New(ctx, eng, defs, store, logger),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// Init shows the title, the intro and the first look around.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		lines := []string{titleLine(m.defs), ""}
		if intro := m.defs.Game.Intro; intro != "" {
			lines = append(lines, intro, "")
		}
		lines = append(lines, m.engine.Step("look").Output...)
		return outputMsg{lines: lines}
	}
}

// Update handles key presses, resizes and output batches.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case outputMsg:
		m.write(msg)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	rows := max(1, height-chromeRows)
	if !m.ready {
		m.pane = viewport.New(width, rows)
		m.pane.KeyMap = paneKeys()
		m.ready = true
	} else {
		m.pane.Width, m.pane.Height = width, rows
	}
	m.render()
}

// handleKey deals with the keys the prompt must not see. handled is
// false when the key should reach the text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit, true
	case "enter":
		next, cmd := m.submit()
		return next, cmd, true
	case "up":
		if cmd, ok := m.history.Back(m.prompt.Value()); ok {
			m.setPrompt(cmd)
		}
		return m, nil, true
	case "down":
		if cmd, ok := m.history.Forward(); ok {
			m.setPrompt(cmd)
		}
		return m, nil, true
	case "esc":
		m.history.Reset()
		m.setPrompt("")
		return m, nil, true
	case "ctrl+l":
		m.transcript = nil
		m.render()
		return m, nil, true
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.pane, cmd = m.pane.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) setPrompt(s string) {
	m.prompt.SetValue(s)
	m.prompt.CursorEnd()
}

// submit runs the line in the prompt. Slash commands go to the shared
// command handler and are never recorded for again.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.prompt.Value())
	m.prompt.SetValue("")
	if line == "" {
		return m, nil
	}
	m.history.Push(line)

	if strings.HasPrefix(line, "/") {
		out, quit := m.cmds.Handle(m.ctx, line)
		if strings.Fields(line)[0] == "/help" {
			out = append(out, "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history, Esc clears the prompt, Ctrl+L clears the screen")
		}
		m.write(outputMsg{echo: line, lines: out, system: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch strings.ToLower(line) {
	case "again", "g":
		if m.lastCmd == "" {
			m.write(outputMsg{echo: line, lines: []string{"Nothing to repeat."}, system: true})
			return m, nil
		}
		line = m.lastCmd
	default:
		m.lastCmd = line
	}

	res := m.engine.Step(line)
	out := res.Output
	if m.cmds.Trace {
		out = append(out, cli.FormatTrace(res)...)
	}
	m.write(outputMsg{echo: line, lines: out})
	return m, nil
}

// write appends a batch to the transcript, followed by a blank spacer.
func (m *Model) write(msg outputMsg) {
	if msg.echo != "" {
		m.transcript = append(m.transcript, entry{text: "> " + msg.echo, echo: true})
	}
	for _, line := range msg.lines {
		e := entry{text: line, system: msg.system}
		if !msg.system {
			e.kind = classifyLine(line)
		}
		m.transcript = append(m.transcript, e)
	}
	m.transcript = append(m.transcript, entry{})
	m.render()
}

// render wraps and styles the transcript at the current width.
func (m *Model) render() {
	if !m.ready {
		return
	}
	width := max(minWrap, m.width)
	out := make([]string, 0, len(m.transcript))
	for _, e := range m.transcript {
		if e.text == "" {
			out = append(out, "")
			continue
		}
		text := wrap(e.text, width)
		switch {
		case e.echo:
			text = stylePlayerInput.Render(text)
		case e.system:
			text = styledSystemMsg(text)
		default:
			text = renderLineKind(text, e.kind)
		}
		out = append(out, text)
	}
	m.pane.SetContent(strings.Join(out, "\n"))
	m.pane.GotoBottom()
}

var kindStyles = map[lineKind]lipgloss.Style{
	kindNearby:   styleNearby,
	kindCombat:   styleCombat,
	kindRoll:     styleRoll,
	kindDialogue: styleDialogue,
	kindSystem:   styleSystem,
	kindError:    styleError,
	kindTrace:    styleTrace,
}

func renderLineKind(line string, kind lineKind) string {
	if kind == kindHere {
		return styledHere(line)
	}
	if s, ok := kindStyles[kind]; ok {
		return s.Render(line)
	}
	return styleNarrative.Render(line)
}

// wrap breaks text at spaces so no row is wider than width cells.
// Leading indentation and embedded newlines are kept. A single word
// longer than width gets a row of its own.
func wrap(text string, width int) string {
	paras := strings.Split(text, "\n")
	for i, p := range paras {
		paras[i] = wrapParagraph(p, width)
	}
	return strings.Join(paras, "\n")
}

func wrapParagraph(p string, width int) string {
	if lipgloss.Width(p) <= width {
		return p
	}
	body := strings.TrimLeft(p, " ")
	indent := p[:len(p)-len(body)]

	var b strings.Builder
	b.WriteString(indent)
	col := lipgloss.Width(indent)
	for i, w := range strings.Fields(body) {
		ww := lipgloss.Width(w)
		if i > 0 {
			if col+1+ww > width {
				b.WriteString("\n" + indent)
				col = lipgloss.Width(indent)
			} else {
				b.WriteByte(' ')
				col++
			}
		}
		b.WriteString(w)
		col += ww
	}
	return b.String()
}

// View stacks the transcript, the status bar and the prompt.
func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case !m.ready:
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.pane.View(), m.renderStatusBar(), m.prompt.View())
}

// titleLine names the game and, when known, its version and author.
func titleLine(defs *state.Defs) string {
	parts := []string{defs.Game.Title}
	if v := defs.Game.Version; v != "" {
		parts = append(parts, "v"+v)
	}
	if a := defs.Game.Author; a != "" {
		parts = append(parts, "by "+a)
	}
	return strings.Join(parts, " ")
}

// paneKeys leaves Up and Down to the command history.
func paneKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
